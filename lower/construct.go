package lower

import (
	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/cfgerr"
)

// LowerFunction lowers fn's body against a fresh Source/Sink pair
// (spec.md §4.5.1), returning the resulting graph. The caller (package
// driver) is responsible for validating fn itself (non-anonymous, a
// *ast.Function) before calling this.
func LowerFunction(fn *ast.Function) (*cfg.Graph, error) {
	g := cfg.NewGraph()
	source := newNode(g, cfg.Source{Name: fn.Name}, fn.Name)
	sink := newNode(g, cfg.Sink{Name: fn.Name}, fn.Name)
	g.SetSource(source)
	g.SetSink(sink)

	ctx := Context{MostRecent: sink, Sink: sink}
	start, err := lowerBlock(g, fn.Body, ctx)
	if err != nil {
		return nil, err
	}
	if start != nil {
		g.AddEdge(source, start, cfg.EdgeStatement{})
	}
	return g, nil
}

// lowerThrow lowers a Throw (spec.md §4.5.5).
func lowerThrow(g *cfg.Graph, s *ast.Throw, ctx Context) (*cfg.Node, error) {
	if len(s.Exception) == 0 {
		return nil, cfgerr.NotSupportedf("Throw statements must have at least one exception")
	}
	n := newNode(g, cfg.Exception{Statement: s.Statement, Pos: cfg.Position{Line: s.Pos.Line, Column: s.Pos.Column}}, "")

	target := ctx.Sink
	tag := s.Exception[0]
	for _, t := range s.Exception {
		if tgt, ok := ctx.ExceptionNodes[t]; ok {
			target = tgt
			tag = t
			break
		}
	}
	g.AddEdge(n, target, cfg.EdgeException{Type: tag})
	return n, nil
}

// lowerBreak lowers a Break (spec.md §4.5.6).
func lowerBreak(g *cfg.Graph, s *ast.Break, ctx Context) (*cfg.Node, error) {
	n := newNode(g, cfg.Control{Transfer: cfg.TransferBreak}, s.Label())
	if s.Label() == "" && ctx.NearestBreakable != nil {
		g.AddEdge(n, ctx.NearestBreakable, cfg.EdgeStatement{})
	}
	return n, nil
}

// lowerContinue lowers a Continue (spec.md §4.5.6).
func lowerContinue(g *cfg.Graph, s *ast.Continue, ctx Context) (*cfg.Node, error) {
	n := newNode(g, cfg.Control{Transfer: cfg.TransferContinue}, s.Label())
	if s.Label() == "" && ctx.NearestContinuable != nil {
		g.AddEdge(n, ctx.NearestContinuable, cfg.EdgeStatement{})
	}
	return n, nil
}

// lowerReturn lowers a Return (spec.md §4.5.7). A labeled Return is legal
// syntax here; it is rejected later, by the label resolver.
func lowerReturn(g *cfg.Graph, s *ast.Return, ctx Context) (*cfg.Node, error) {
	n := newNode(g, cfg.Control{Transfer: cfg.TransferReturn, Expr: s.Expression}, s.Label())
	if ctx.Sink != nil {
		g.AddEdge(n, ctx.Sink, cfg.EdgeStatement{})
	}
	return n, nil
}

// lowerDecision lowers a DecisionBlock (spec.md §4.5.3).
func lowerDecision(g *cfg.Graph, s *ast.DecisionBlock, ctx Context) (*cfg.Node, error) {
	falseTarget := ctx.MostRecent
	if s.Else != nil {
		elseEntry, err := lowerElse(g, s.Else, ctx)
		if err != nil {
			return nil, err
		}
		if elseEntry != nil {
			falseTarget = elseEntry
		}
	}

	bodyEntry, err := lowerBlock(g, s.Body, ctx)
	if err != nil {
		return nil, err
	}
	trueTarget := bodyEntry
	if trueTarget == nil {
		trueTarget = ctx.MostRecent
	}

	decisions, err := lowerCondition(g, s.Condition, targets{True: trueTarget, False: falseTarget})
	if err != nil {
		return nil, err
	}
	if len(decisions) > 0 {
		return decisions[0], nil
	}
	if bodyEntry != nil {
		return bodyEntry, nil
	}
	return nil, nil
}

// lowerElse lowers a DecisionBlock's else-clause, which is either a bare
// *ast.Block or a single statement node (an elif chained as another
// *ast.DecisionBlock, or a bare non-exiting statement). It always lowers
// through lowerBlock, wrapping a non-*ast.Block node in a one-statement
// block first, so a non-exiting bare statement still gets lowerBlock's
// fall-through edge to the continuation in effect at the call site,
// rather than being left as a dead end.
func lowerElse(g *cfg.Graph, n ast.Node, ctx Context) (*cfg.Node, error) {
	if b, ok := n.(*ast.Block); ok {
		return lowerBlock(g, b, ctx)
	}
	return lowerBlock(g, &ast.Block{Statements: []ast.Node{n}}, ctx)
}

// lowerTry lowers a TryBlock (spec.md §4.5.4).
func lowerTry(g *cfg.Graph, s *ast.TryBlock, ctx Context) (*cfg.Node, error) {
	continuation := ctx.MostRecent
	if s.Finally != nil {
		finallyEntry, err := lowerBlock(g, s.Finally, ctx)
		if err != nil {
			return nil, err
		}
		if finallyEntry != nil {
			continuation = finallyEntry
		}
	}

	catchCtx := ctx
	catchCtx.MostRecent = continuation
	table := make(map[string]*cfg.Node)
	for i := len(s.Catches) - 1; i >= 0; i-- {
		catch := s.Catches[i]
		bodyEntry, err := lowerBlock(g, catch.Body, catchCtx)
		if err != nil {
			return nil, err
		}
		target := bodyEntry
		if target == nil {
			target = continuation
		}
		for _, tag := range catch.ExceptionTypes {
			table[tag] = target
		}
	}

	tryCtx := ctx.withExceptionTable(table)
	tryCtx.MostRecent = continuation
	bodyEntry, err := lowerBlock(g, s.Body, tryCtx)
	if err != nil {
		return nil, err
	}
	if bodyEntry != nil {
		return bodyEntry, nil
	}
	return continuation, nil
}

// lowerLoop lowers a Loop (spec.md §4.5.2). See DESIGN.md for the
// reconciliation of the labeled-loop edge shape with the label
// resolver's discovery strategy.
func lowerLoop(g *cfg.Graph, s *ast.Loop, ctx Context) (*cfg.Node, error) {
	if !s.FirstIterationConditionCheck && (len(s.Init) > 0 || len(s.Update) > 0) {
		return nil, cfgerr.TriedToCreateDoForLoop()
	}

	next := ctx.MostRecent
	hasUpdate := len(s.Update) > 0
	hasCond := !isEmptyCondition(s.Condition)

	continuePH := newNode(g, cfg.Sink{Name: "continue placeholder"}, "dummy continue")
	fallthroughPH := newNode(g, cfg.Sink{Name: "loop fall-through placeholder"}, "dummy fall-through")

	bodyCtx := ctx
	bodyCtx.MostRecent = fallthroughPH
	bodyCtx.NearestBreakable = next
	bodyCtx.NearestContinuable = continuePH
	bodyEntry, err := lowerBlock(g, s.Body, bodyCtx)
	if err != nil {
		return nil, err
	}
	hasBody := bodyEntry != nil

	var entry, loopback, conditionEntry *cfg.Node

	switch {
	case hasCond && s.FirstIterationConditionCheck:
		// Pre-test: I,D(pre),B,U and its reductions. The condition's own
		// entry node is not known until lowerCondition returns, but it
		// may itself be needed as a target (the update chain's next
		// step, or the condition's own true-branch in the fully
		// degenerate no-body/no-update case) — a placeholder stands in
		// for "the condition's entry" in either position until then.
		selfPH := newNode(g, cfg.Sink{Name: "loop condition placeholder"}, "dummy condition entry")

		var updateEntry *cfg.Node
		if hasUpdate {
			updateEntry = lowerTextChain(g, s.Update, selfPH)
		}

		trueTarget := selfPH
		if hasBody {
			trueTarget = bodyEntry
		} else if hasUpdate {
			trueTarget = updateEntry
		}

		decisions, err := lowerCondition(g, s.Condition, targets{True: trueTarget, False: next})
		if err != nil {
			return nil, err
		}
		redirectPlaceholder(g, selfPH, decisions[0])

		if hasUpdate {
			loopback = updateEntry
		} else {
			loopback = decisions[0]
		}
		entry = decisions[0]
		conditionEntry = decisions[0]

	case hasCond && !s.FirstIterationConditionCheck:
		// Post-test: …,D(post),B,…  (pre-check above guarantees no
		// init/update here).
		selfPH := newNode(g, cfg.Sink{Name: "loop condition placeholder"}, "dummy condition entry")

		trueTarget := selfPH
		if hasBody {
			trueTarget = bodyEntry
		}
		decisions, err := lowerCondition(g, s.Condition, targets{True: trueTarget, False: next})
		if err != nil {
			return nil, err
		}
		redirectPlaceholder(g, selfPH, decisions[0])

		loopback = decisions[0]
		entry = decisions[0]
		conditionEntry = decisions[0]
		if hasBody {
			entry = bodyEntry
		}

	case hasBody && hasUpdate:
		// I,∅,B,U: I→B→U→B (infinite; back-edge).
		updateEntry := lowerTextChain(g, s.Update, bodyEntry)
		loopback = updateEntry
		entry = bodyEntry

	case hasBody && !hasUpdate:
		// ∅,∅,B,∅: B→B.
		loopback = bodyEntry
		entry = bodyEntry

	case !hasBody && hasUpdate:
		// I,∅,∅,U: I→U→U.
		updateEntry := lowerTextChainSelfLoop(g, s.Update)
		loopback = updateEntry
		entry = updateEntry

	default:
		// ∅,∅,∅,∅: empty loop, no nodes created by this construct.
		entry = nil
		loopback = nil
	}

	redirectPlaceholder(g, continuePH, loopback)
	redirectPlaceholder(g, fallthroughPH, loopback)

	if s.Label() != "" {
		// A labeled continue re-enters at the condition recheck when one
		// exists, or at the body start otherwise — not at the update
		// step, unlike the effective target an unlabeled continue inside
		// the loop resolves to (loopback, above). This mirrors
		// ast_processor.rs's own continue_target computation for a
		// labeled loop, which is deliberately narrower than its unlabeled
		// counterpart.
		continueTarget := conditionEntry
		if continueTarget == nil {
			continueTarget = bodyEntry
		}

		labelNode := newNode(g, cfg.LabelPlaceholder{}, s.Label())
		if continueTarget != nil {
			g.AddEdge(labelNode, continueTarget, cfg.EdgeLabel{Kind: cfg.LabelContinue})
		}
		g.AddEdge(labelNode, next, cfg.EdgeLabel{Kind: cfg.LabelNext})
		g.RegisterLabel(s.Label(), labelNode)
	}

	entry = lowerTextChain(g, s.Init, orElse(entry, next))
	return entry, nil
}

// redirectPlaceholder rewrites every incoming edge of placeholder to
// point at real instead, then removes placeholder. If real is nil (a
// fully empty loop, whose placeholders can have no incoming edges since
// nothing was lowered against them), it simply removes the placeholder.
func redirectPlaceholder(g *cfg.Graph, placeholder, real *cfg.Node) {
	for _, e := range g.EdgesTo(placeholder) {
		if real != nil {
			g.AddEdge(e.FromNode(), real, e.Kind)
		}
	}
	g.RemoveNode(placeholder)
}

func isEmptyCondition(c ast.Condition) bool {
	_, ok := c.(ast.Empty)
	return ok
}

func orElse(n, fallback *cfg.Node) *cfg.Node {
	if n != nil {
		return n
	}
	return fallback
}
