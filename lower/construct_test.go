package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
)

func stmt(code string) *ast.Statement { return &ast.Statement{Code: code} }

// P4 (return routes to sink): every Control(Return) node connects to
// Sink via a Statement edge.
func TestReturnRoutesToSink(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Return{HasExpression: true, Expression: "x"},
	}}}
	g, err := LowerFunction(fn)
	require.NoError(t, err)

	var ret *cfg.Node
	for _, n := range g.NodeList() {
		if ctl, ok := n.Kind.(cfg.Control); ok && ctl.Transfer == cfg.TransferReturn {
			ret = n
		}
	}
	require.NotNil(t, ret)
	succs := g.Successors(ret)
	require.Len(t, succs, 1)
	require.Equal(t, g.Sink(), succs[0])
}

// P7 (exception routing): an unmatched throw lands on the sink via an
// Exception edge tagged with the first thrown tag.
func TestUnmatchedThrowRoutesToSink(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Throw{Exception: []string{"E", "F"}, Statement: "panic"},
	}}}
	g, err := LowerFunction(fn)
	require.NoError(t, err)

	exc := g.Successors(g.Source())[0]
	var tag string
	var target *cfg.Node
	for _, e := range g.EdgesFrom(exc) {
		ee, ok := e.Kind.(cfg.EdgeException)
		require.True(t, ok)
		tag = ee.Type
		target = e.ToNode()
	}
	require.Equal(t, "E", tag)
	require.Equal(t, g.Sink(), target)
}

// Nested try: an inner try's uncaught tag is still caught by an outer
// try's handler (the layered exception table).
func TestNestedTryLayeredExceptionTable(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.TryBlock{
			Body: &ast.Block{Statements: []ast.Node{
				&ast.TryBlock{
					Body: &ast.Block{Statements: []ast.Node{
						&ast.Throw{Exception: []string{"Outer"}, Statement: "panic"},
					}},
					Catches: []*ast.CatchBlock{
						{ExceptionTypes: []string{"Inner"}, Body: &ast.Block{Statements: []ast.Node{stmt("innerHandler")}}},
					},
				},
			}},
			Catches: []*ast.CatchBlock{
				{ExceptionTypes: []string{"Outer"}, Body: &ast.Block{Statements: []ast.Node{stmt("outerHandler")}}},
			},
		},
	}}}
	g, err := LowerFunction(fn)
	require.NoError(t, err)

	exc := g.Successors(g.Source())[0]
	_, ok := exc.Kind.(cfg.Exception)
	require.True(t, ok)

	var target *cfg.Node
	for _, e := range g.EdgesFrom(exc) {
		ee, ok := e.Kind.(cfg.EdgeException)
		require.True(t, ok)
		require.Equal(t, "Outer", ee.Type)
		target = e.ToNode()
	}
	require.Equal(t, "outerHandler", target.Kind.(cfg.Statement).Code)
}

// A statement following an unlabeled break with no enclosing breakable
// frame is unreachable: lowerBlock's generic fall-through pass never
// wires a Control(Break) node forward (exits returns true for *ast.Break),
// so "before" falls through to the break, and "after" gets no incoming
// edge at all.
func TestStatementAfterDeadEndBreakIsUnreachable(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{
		Statements: []ast.Node{
			stmt("before"),
			&ast.Break{},
			stmt("after"),
		},
	}}
	g, err := LowerFunction(fn)
	require.NoError(t, err)

	var before, after *cfg.Node
	for _, n := range g.NodeList() {
		if s, ok := n.Kind.(cfg.Statement); ok {
			switch s.Code {
			case "before":
				before = n
			case "after":
				after = n
			}
		}
	}
	require.NotNil(t, before)
	require.NotNil(t, after)

	succs := g.Successors(before)
	require.Len(t, succs, 1)
	_, isControl := succs[0].Kind.(cfg.Control)
	require.True(t, isControl)

	require.Empty(t, g.Predecessors(after))
}
