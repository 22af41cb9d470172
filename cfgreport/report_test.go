package cfgreport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/driver"
)

// P1–P3 via cfgreport.Check: a well-formed translation reports nothing.
func TestCheckCleanGraph(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.DecisionBlock{
			Condition: ast.Unit{Expr: "a"},
			Body:      &ast.Block{Statements: []ast.Node{&ast.Statement{Code: "t"}}},
			Else:      &ast.Statement{Code: "e"},
		},
	}}}
	g, err := driver.Translate(fn)
	require.NoError(t, err)
	require.Empty(t, Check(g))
}

func TestCheckDecisionArityViolation(t *testing.T) {
	g := cfg.NewGraph()
	src := g.NewNode(cfg.Source{}, "f")
	g.AddNode(src)
	sink := g.NewNode(cfg.Sink{}, "f")
	g.AddNode(sink)
	g.SetSource(src)
	g.SetSink(sink)

	d := g.NewNode(cfg.Decision{Expression: "a"}, "")
	g.AddNode(d)
	g.AddEdge(src, d, cfg.EdgeStatement{})
	g.AddEdge(d, sink, cfg.EdgeDecision{Direction: cfg.True})

	findings := Check(g)
	var found bool
	for _, f := range findings {
		if f.Kind == "decision-arity" {
			found = true
		}
	}
	require.True(t, found)
}

func TestCheckUnreachableNode(t *testing.T) {
	g := cfg.NewGraph()
	src := g.NewNode(cfg.Source{}, "f")
	g.AddNode(src)
	sink := g.NewNode(cfg.Sink{}, "f")
	g.AddNode(sink)
	g.SetSource(src)
	g.SetSink(sink)
	g.AddEdge(src, sink, cfg.EdgeStatement{})

	orphan := g.NewNode(cfg.Statement{Code: "dead"}, "")
	g.AddNode(orphan)

	findings := Check(g)
	var found bool
	for _, f := range findings {
		if f.Kind == "unreachable" && f.NodeID == orphan.ID() {
			found = true
		}
	}
	require.True(t, found)
}
