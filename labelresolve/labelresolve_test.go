package labelresolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/driver"
)

func stmt(code string) *ast.Statement { return &ast.Statement{Code: code} }

// P6 (labeled break reaches its frame): ControlNode(Break) for `break L`
// has a path to L's frame's continuation with no intervening Label node.
func TestLabeledBreakReachesOuterFrame(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Loop{
			Meta:                         ast.Meta{LabelText: "L"},
			FirstIterationConditionCheck: true,
			Condition:                    ast.Unit{Expr: "outer"},
			Body: &ast.Block{Statements: []ast.Node{
				&ast.Loop{
					FirstIterationConditionCheck: true,
					Condition:                    ast.Unit{Expr: "inner"},
					Body: &ast.Block{Statements: []ast.Node{
						&ast.Break{Meta: ast.Meta{LabelText: "L"}},
					}},
				},
			}},
		},
		stmt("after"),
	}}}

	g, err := driver.Translate(fn)
	require.NoError(t, err)

	for _, n := range g.NodeList() {
		_, isLabel := n.Kind.(cfg.LabelPlaceholder)
		require.False(t, isLabel, "no Label placeholder should survive resolution")
		for _, e := range g.EdgesFrom(n) {
			_, isLabelEdge := e.Kind.(cfg.EdgeLabel)
			require.False(t, isLabelEdge, "no Label edge should survive resolution")
		}
	}

	var brk *cfg.Node
	for _, n := range g.NodeList() {
		if ctl, ok := n.Kind.(cfg.Control); ok && ctl.Transfer == cfg.TransferBreak {
			brk = n
		}
	}
	require.NotNil(t, brk)
	require.Len(t, g.EdgesFrom(brk), 1)

	after := g.EdgesFrom(brk)[0].ToNode()
	require.Equal(t, "after", after.Kind.(cfg.Statement).Code)
}
