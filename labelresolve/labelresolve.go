// Package labelresolve implements spec.md §4.6: the second pass that
// routes labeled break/continue statements at the Label placeholder
// nodes created during loop lowering, then removes every placeholder so
// that the graph returned to a Driver caller carries no Label node or
// Label edge (invariant 3).
package labelresolve

import (
	"log"
	"os"

	"github.com/mewkiz/pkg/term"

	"github.com/astcfg/cfgtranslate/cfg"
	"github.com/astcfg/cfgtranslate/cfgerr"
)

var dbg = log.New(os.Stderr, term.RedBold("labelresolve:")+" ", 0)

// Resolve walks g from source, resolving every labeled Break/Continue
// against the label registry populated during lowering, then collapses
// every Label placeholder.
//
// Lowering registers a loop's Label placeholder directly (cfg.Graph's
// label registry), rather than relying on this pass to discover
// placeholders by a graph walk: a Label placeholder, as constructed,
// carries no incoming edge, so it is never reachable from source. See
// DESIGN.md for the rationale.
func Resolve(g *cfg.Graph, source *cfg.Node) error {
	visited := make(map[int64]bool)
	if err := visit(g, source, visited); err != nil {
		return err
	}
	collapsePlaceholders(g)
	return nil
}

func visit(g *cfg.Graph, n *cfg.Node, visited map[int64]bool) error {
	if visited[n.ID()] {
		return nil
	}
	visited[n.ID()] = true

	if ctl, ok := n.Kind.(cfg.Control); ok && n.Label != "" {
		if err := resolveControl(g, n, ctl, n.Label); err != nil {
			return err
		}
	}

	for _, succ := range g.Successors(n) {
		if err := visit(g, succ, visited); err != nil {
			return err
		}
	}
	return nil
}

func resolveControl(g *cfg.Graph, n *cfg.Node, ctl cfg.Control, label string) error {
	switch ctl.Transfer {
	case cfg.TransferBreak:
		target := labelEdgeTarget(g, label, cfg.LabelBreak, cfg.LabelNext)
		if target != nil {
			g.AddEdge(n, target, cfg.EdgeStatement{})
		} else {
			dbg.Printf("labeled break %q: no enclosing label, leaving dead-end", label)
		}
	case cfg.TransferContinue:
		target := labelEdgeTarget(g, label, cfg.LabelContinue)
		if target != nil {
			g.AddEdge(n, target, cfg.EdgeStatement{})
		} else {
			dbg.Printf("labeled continue %q: no enclosing label, leaving dead-end", label)
		}
	case cfg.TransferReturn:
		return cfgerr.ReturnToLabel()
	case cfg.TransferYield:
		return cfgerr.NotImplemented("Yield")
	}
	return nil
}

// labelEdgeTarget finds the label node registered for text, then returns
// the target of its first outgoing edge whose kind is one of kinds (in
// priority order).
func labelEdgeTarget(g *cfg.Graph, text string, kinds ...cfg.LabelEdgeKind) *cfg.Node {
	labelNode := g.Label(text)
	if labelNode == nil {
		return nil
	}
	for _, k := range kinds {
		for _, e := range g.EdgesFrom(labelNode) {
			if le, ok := e.Kind.(cfg.EdgeLabel); ok && le.Kind == k {
				return e.ToNode()
			}
		}
	}
	return nil
}

// collapsePlaceholders removes every registered Label node: any
// incoming edge it has (none, for a loop-only label, since nothing in
// this package's lowering ever points at one directly) is redirected to
// its Next-kind edge's target, then the node itself is deleted.
func collapsePlaceholders(g *cfg.Graph) {
	for _, labelNode := range g.Labels() {
		var next *cfg.Node
		for _, e := range g.EdgesFrom(labelNode) {
			if le, ok := e.Kind.(cfg.EdgeLabel); ok && le.Kind == cfg.LabelNext {
				next = e.ToNode()
				break
			}
		}
		for _, e := range g.EdgesTo(labelNode) {
			if next != nil {
				g.AddEdge(e.FromNode(), next, e.Kind)
			}
		}
		g.RemoveNode(labelNode)
	}
}
