// Package lower implements the core translation of spec.md §4.2–§4.5: it
// walks an *ast.Function body and builds the corresponding *cfg.Graph,
// one function at a time. Every lowering function threads a Context by
// value (see context.go); children override individual fields for their
// own subtree rather than mutating a shared, global structure.
//
// The package never resolves labeled break/continue itself — that is
// package labelresolve's job, run as a second pass once a full function
// has been lowered.
package lower

import (
	"log"
	"os"

	"github.com/mewkiz/pkg/term"

	"github.com/astcfg/cfgtranslate/cfg"
)

var dbg = log.New(os.Stderr, term.RedBold("lower:")+" ", 0)

// newNode allocates a node and immediately adds it to g. Every node this
// package creates, placeholders included, goes through it; nothing here
// calls cfg.Graph's NewNode and AddNode as separate steps.
func newNode(g *cfg.Graph, kind cfg.NodeKind, label string) *cfg.Node {
	n := g.NewNode(kind, label)
	g.AddNode(n)
	return n
}
