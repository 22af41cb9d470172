package lower

import "github.com/astcfg/cfgtranslate/cfg"

// Context is the value-copied continuation record threaded through
// recursive lowering (spec.md §4.2). Each recursive call that needs a
// different view of "what comes next" or "what is the nearest breakable
// frame" copies ctx and overrides the relevant field for its subtree;
// nothing here is shared or mutated across sibling subtrees.
type Context struct {
	// MostRecent is the node execution falls through to when the
	// statement currently being lowered completes normally.
	MostRecent *cfg.Node
	// Sink is the function frame's exit node. Return statements and
	// uncaught Throws target it.
	Sink *cfg.Node
	// NearestBreakable is the target of an unlabeled break, or nil if
	// none is in scope.
	NearestBreakable *cfg.Node
	// NearestContinuable is the target of an unlabeled continue, or nil
	// if none is in scope.
	NearestContinuable *cfg.Node
	// ExceptionNodes maps an exception tag to the catch body (or
	// continuation) that handles it. A try's own lowering installs a
	// fresh map copied from the inherited one and overridden with its
	// own catch entries (SPEC_FULL.md §4.10's layered exception table),
	// so an inner try's uncaught tag can still be caught by an outer
	// try.
	ExceptionNodes map[string]*cfg.Node
}

// withExceptionTable returns a copy of ctx whose ExceptionNodes is a
// fresh map: the entries of ctx.ExceptionNodes plus overrides, without
// mutating ctx's own map (which may still be read by sibling subtrees
// lowered against the same parent context).
func (ctx Context) withExceptionTable(overrides map[string]*cfg.Node) Context {
	merged := make(map[string]*cfg.Node, len(ctx.ExceptionNodes)+len(overrides))
	for tag, n := range ctx.ExceptionNodes {
		merged[tag] = n
	}
	for tag, n := range overrides {
		merged[tag] = n
	}
	ctx.ExceptionNodes = merged
	return ctx
}
