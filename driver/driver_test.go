package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
)

func stmt(code string) *ast.Statement { return &ast.Statement{Code: code} }

func decisionOf(t *testing.T, g *cfg.Graph, n *cfg.Node) cfg.Decision {
	t.Helper()
	d, ok := n.Kind.(cfg.Decision)
	require.True(t, ok, "expected a Decision node, got %T", n.Kind)
	return d
}

func trueTarget(t *testing.T, g *cfg.Graph, n *cfg.Node) *cfg.Node {
	t.Helper()
	for _, e := range g.EdgesFrom(n) {
		if d, ok := e.Kind.(cfg.EdgeDecision); ok && d.Direction == cfg.True {
			return e.ToNode()
		}
	}
	t.Fatalf("no True edge out of %v", n)
	return nil
}

func falseTarget(t *testing.T, g *cfg.Graph, n *cfg.Node) *cfg.Node {
	t.Helper()
	for _, e := range g.EdgesFrom(n) {
		if d, ok := e.Kind.(cfg.EdgeDecision); ok && d.Direction == cfg.False {
			return e.ToNode()
		}
	}
	t.Fatalf("no False edge out of %v", n)
	return nil
}

func soleSuccessor(t *testing.T, g *cfg.Graph, n *cfg.Node) *cfg.Node {
	t.Helper()
	succs := g.Successors(n)
	require.Len(t, succs, 1)
	return succs[0]
}

// S1 — Empty function.
func TestEmptyFunction(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{}}
	g, err := Translate(fn)
	require.NoError(t, err)
	require.Len(t, g.NodeList(), 2)

	var edges int
	for _, n := range g.NodeList() {
		edges += len(g.EdgesFrom(n))
	}
	require.Equal(t, 0, edges)
}

// S2 — Single statement.
func TestSingleStatement(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{stmt("x=1")}}}
	g, err := Translate(fn)
	require.NoError(t, err)
	require.Len(t, g.NodeList(), 3)

	x := soleSuccessor(t, g, g.Source())
	require.Equal(t, "x=1", x.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, x))

	var statementEdges int
	for _, n := range g.NodeList() {
		for _, e := range g.EdgesFrom(n) {
			if _, ok := e.Kind.(cfg.EdgeStatement); ok {
				statementEdges++
			}
		}
	}
	require.Equal(t, 2, statementEdges)
}

// S3 — If/else.
func TestIfElse(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.DecisionBlock{
			Condition: ast.Unit{Expr: "a"},
			Body:      &ast.Block{Statements: []ast.Node{stmt("t")}},
			Else:      stmt("e"),
		},
	}}}
	g, err := Translate(fn)
	require.NoError(t, err)
	require.Len(t, g.NodeList(), 5)

	d := soleSuccessor(t, g, g.Source())
	decisionOf(t, g, d)

	th := trueTarget(t, g, d)
	require.Equal(t, "t", th.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, th))

	el := falseTarget(t, g, d)
	require.Equal(t, "e", el.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, el))
}

// An elif chain (else holding another *ast.DecisionBlock) is wrapped by
// lowerElse in a one-statement block like any other non-block else, and
// the false branch still routes through the nested decision.
func TestElifChain(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.DecisionBlock{
			Condition: ast.Unit{Expr: "a"},
			Body:      &ast.Block{Statements: []ast.Node{stmt("t")}},
			Else: &ast.DecisionBlock{
				Condition: ast.Unit{Expr: "b"},
				Body:      &ast.Block{Statements: []ast.Node{stmt("u")}},
				Else:      stmt("e"),
			},
		},
	}}}
	g, err := Translate(fn)
	require.NoError(t, err)

	d1 := soleSuccessor(t, g, g.Source())
	decisionOf(t, g, d1)

	t1 := trueTarget(t, g, d1)
	require.Equal(t, "t", t1.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, t1))

	d2 := falseTarget(t, g, d1)
	decisionOf(t, g, d2)

	u := trueTarget(t, g, d2)
	require.Equal(t, "u", u.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, u))

	e := falseTarget(t, g, d2)
	require.Equal(t, "e", e.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, e))
}

// S4 — While loop, pre-test.
func TestWhileLoop(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Loop{
			FirstIterationConditionCheck: true,
			Condition:                    ast.Unit{Expr: "c"},
			Body:                         &ast.Block{Statements: []ast.Node{stmt("b")}},
		},
	}}}
	g, err := Translate(fn)
	require.NoError(t, err)

	d := soleSuccessor(t, g, g.Source())
	decisionOf(t, g, d)

	b := trueTarget(t, g, d)
	require.Equal(t, "b", b.Kind.(cfg.Statement).Code)
	require.Equal(t, d, soleSuccessor(t, g, b))

	require.Equal(t, g.Sink(), falseTarget(t, g, d))
}

// S5 — For-loop with short-circuit condition.
func TestForLoopShortCircuit(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Loop{
			FirstIterationConditionCheck: true,
			Init:                         []string{"i=0"},
			Update:                       []string{"i++"},
			Condition: ast.And{
				Left:  ast.Unit{Expr: "i<n"},
				Right: ast.Unit{Expr: "ok"},
			},
			Body: &ast.Block{Statements: []ast.Node{stmt("body")}},
		},
	}}}
	g, err := Translate(fn)
	require.NoError(t, err)

	init := soleSuccessor(t, g, g.Source())
	require.Equal(t, "i=0", init.Kind.(cfg.Statement).Code)

	dCount := soleSuccessor(t, g, init)
	decisionOf(t, g, dCount)
	require.Equal(t, g.Sink(), falseTarget(t, g, dCount))

	dOk := trueTarget(t, g, dCount)
	decisionOf(t, g, dOk)
	require.Equal(t, g.Sink(), falseTarget(t, g, dOk))

	body := trueTarget(t, g, dOk)
	require.Equal(t, "body", body.Kind.(cfg.Statement).Code)

	update := soleSuccessor(t, g, body)
	require.Equal(t, "i++", update.Kind.(cfg.Statement).Code)
	require.Equal(t, dCount, soleSuccessor(t, g, update))
}

// S6 — Try/catch.
func TestTryCatch(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.TryBlock{
			Body: &ast.Block{Statements: []ast.Node{
				&ast.Throw{Exception: []string{"E"}, Statement: "panic"},
			}},
			Catches: []*ast.CatchBlock{
				{ExceptionTypes: []string{"E"}, Body: &ast.Block{Statements: []ast.Node{stmt("h")}}},
			},
		},
	}}}
	g, err := Translate(fn)
	require.NoError(t, err)

	exc := soleSuccessor(t, g, g.Source())
	_, ok := exc.Kind.(cfg.Exception)
	require.True(t, ok)

	var tag string
	var h *cfg.Node
	for _, e := range g.EdgesFrom(exc) {
		ee, ok := e.Kind.(cfg.EdgeException)
		require.True(t, ok)
		tag = ee.Type
		h = e.ToNode()
	}
	require.Equal(t, "E", tag)
	require.Equal(t, "h", h.Kind.(cfg.Statement).Code)
	require.Equal(t, g.Sink(), soleSuccessor(t, g, h))
}

func TestTopLevelAnonMethodRejected(t *testing.T) {
	_, err := Translate(&ast.Function{Body: &ast.Block{}})
	require.Error(t, err)
}

func TestNotAMethodRejected(t *testing.T) {
	_, err := Translate(stmt("x"))
	require.Error(t, err)
}

func TestTranslateAllPreservesOrder(t *testing.T) {
	fns := []ast.Node{
		&ast.Function{Name: "a", Body: &ast.Block{}},
		&ast.Function{Name: "b", Body: &ast.Block{Statements: []ast.Node{stmt("x")}}},
		&ast.Function{Name: "c", Body: &ast.Block{}},
	}
	results := TranslateAll(fns)
	require.Len(t, results, 3)
	for i, r := range results {
		require.Equal(t, i, r.Index)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Graph)
	}
}
