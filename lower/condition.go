package lower

import (
	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/cfgerr"
)

// targets is the pair of nodes a condition's true and false outcomes
// branch to.
type targets struct {
	True, False *cfg.Node
}

// lowerCondition lowers cond against targets, returning every Decision
// node it created. The first element is always the condition's overall
// entry point (spec.md §4.3); callers that only need the entry use
// decisions[0].
//
// And and Or splice their operands' Decision nodes together by
// re-targeting one operand's branch at the other's entry point
// (short-circuit evaluation), lowering the right operand first since its
// entry is needed as one of the left operand's targets.
func lowerCondition(g *cfg.Graph, cond ast.Condition, tg targets) ([]*cfg.Node, error) {
	switch c := cond.(type) {
	case ast.Unit:
		n := newNode(g, cfg.Decision{Expression: c.Expr, Pos: cfg.Position{Line: c.Pos.Line, Column: c.Pos.Column}}, "")
		g.AddEdge(n, tg.True, cfg.EdgeDecision{Direction: cfg.True})
		g.AddEdge(n, tg.False, cfg.EdgeDecision{Direction: cfg.False})
		return []*cfg.Node{n}, nil

	case ast.And:
		right, err := lowerCondition(g, c.Right, tg)
		if err != nil {
			return nil, err
		}
		left, err := lowerCondition(g, c.Left, targets{True: right[0], False: tg.False})
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil

	case ast.Or:
		right, err := lowerCondition(g, c.Right, tg)
		if err != nil {
			return nil, err
		}
		left, err := lowerCondition(g, c.Left, targets{True: tg.True, False: right[0]})
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil

	case ast.Empty:
		return nil, nil

	default:
		return nil, cfgerr.MalformedAstf("Condition", "unrecognized condition variant %T", cond)
	}
}
