package lower

import (
	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/cfgerr"
)

// lowerBlock lowers an ordered sequence of statements (spec.md §4.4). It
// returns the block's entry node, or nil if the block lowers to no node
// at all (an empty block, or a block all of whose statements are
// themselves transparent, such as a fully degenerate empty loop).
//
// Statements are lowered in reverse order so that each one's MostRecent
// is the already-lowered node of whatever follows it, or ctx.MostRecent
// for the last statement. "next" tracks this running continuation as the
// reverse pass proceeds; a statement that lowers to no node (entry ==
// nil) leaves next unchanged, so it is transparent to the statement
// before it.
//
// Statements classified exitsElsewhere (see exits, below) wire their own
// continuation internally while lowering (Decision/Loop/Try route each
// of their own branches directly at the right target; a labeled break
// or continue is routed later, by the label resolver). A plain
// Statement's lowering creates a bare node with no outgoing edge at all,
// so a second, forward pass links each such node to the continuation
// that was in effect when it was lowered.
func lowerBlock(g *cfg.Graph, block *ast.Block, ctx Context) (*cfg.Node, error) {
	if block == nil || len(block.Statements) == 0 {
		return nil, nil
	}

	n := len(block.Statements)
	entries := make([]*cfg.Node, n)
	continuations := make([]*cfg.Node, n)
	exitsElsewhere := make([]bool, n)

	next := ctx.MostRecent
	for i := n - 1; i >= 0; i-- {
		stmtCtx := ctx
		stmtCtx.MostRecent = next

		entry, err := lowerStatement(g, block.Statements[i], stmtCtx)
		if err != nil {
			return nil, err
		}

		entries[i] = entry
		continuations[i] = next
		exitsElsewhere[i] = exits(block.Statements[i])

		if entry != nil {
			next = entry
		}
	}

	for i := 0; i < n; i++ {
		if !exitsElsewhere[i] && entries[i] != nil {
			g.AddEdge(entries[i], continuations[i], cfg.EdgeStatement{})
		}
	}

	for i := 0; i < n; i++ {
		if entries[i] != nil {
			return entries[i], nil
		}
	}
	return nil, nil
}

// exits reports whether a statement wires its own continuation while
// lowering (true) rather than relying on lowerBlock's generic
// fall-through pass (false). Throw, Yield, Break, Continue, and Return
// are leaf control transfers with no "next" at all; DecisionBlock, Loop,
// and TryBlock each route their branches directly at the right
// continuation as part of their own lowering (spec.md §4.5.3–§4.5.4).
// A plain Statement is the only case that needs the generic pass.
func exits(n ast.Node) bool {
	switch n.(type) {
	case *ast.Throw, *ast.Yield, *ast.Break, *ast.Continue, *ast.Return,
		*ast.DecisionBlock, *ast.Loop, *ast.TryBlock:
		return true
	default:
		return false
	}
}

// lowerStatement dispatches a single statement node to its
// construct-specific lowering function, returning the node execution
// enters when control reaches this statement (nil if the statement
// contributes no node to the graph).
func lowerStatement(g *cfg.Graph, n ast.Node, ctx Context) (*cfg.Node, error) {
	switch s := n.(type) {
	case *ast.Statement:
		return lowerPlainStatement(g, s)
	case *ast.Throw:
		return lowerThrow(g, s, ctx)
	case *ast.Yield:
		return nil, cfgerr.NotImplemented("Yield")
	case *ast.Break:
		return lowerBreak(g, s, ctx)
	case *ast.Continue:
		return lowerContinue(g, s, ctx)
	case *ast.Return:
		return lowerReturn(g, s, ctx)
	case *ast.DecisionBlock:
		return lowerDecision(g, s, ctx)
	case *ast.Loop:
		return lowerLoop(g, s, ctx)
	case *ast.TryBlock:
		return lowerTry(g, s, ctx)
	default:
		return nil, cfgerr.MalformedAstf("Block.Statements", "unsupported statement node %T", n)
	}
}

func lowerPlainStatement(g *cfg.Graph, s *ast.Statement) (*cfg.Node, error) {
	n := newNode(g, cfg.Statement{Code: s.Code, Pos: cfg.Position{Line: s.Pos.Line, Column: s.Pos.Column}}, "")
	return n, nil
}

// lowerTextChain lowers a sequence of raw statement texts (a Loop's
// initialization or update clause, spec.md §4.5.2) into a chain of
// Statement nodes ending with an edge to next, returning the chain's
// entry node. An empty sequence is transparent: it returns next itself,
// unchanged.
func lowerTextChain(g *cfg.Graph, texts []string, next *cfg.Node) *cfg.Node {
	if len(texts) == 0 {
		return next
	}
	var first, prev *cfg.Node
	for _, t := range texts {
		n := newNode(g, cfg.Statement{Code: t}, "")
		if prev == nil {
			first = n
		} else {
			g.AddEdge(prev, n, cfg.EdgeStatement{})
		}
		prev = n
	}
	g.AddEdge(prev, next, cfg.EdgeStatement{})
	return first
}

// lowerTextChainSelfLoop is lowerTextChain for the degenerate case where
// the chain's own entry is its continuation (an update clause with no
// body and no condition, spec.md §4.5.2's "I,∅,∅,U: I→U→U" row).
func lowerTextChainSelfLoop(g *cfg.Graph, texts []string) *cfg.Node {
	var first, prev *cfg.Node
	for _, t := range texts {
		n := newNode(g, cfg.Statement{Code: t}, "")
		if prev == nil {
			first = n
		} else {
			g.AddEdge(prev, n, cfg.EdgeStatement{})
		}
		prev = n
	}
	g.AddEdge(prev, first, cfg.EdgeStatement{})
	return first
}
