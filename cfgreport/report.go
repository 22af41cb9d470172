// Package cfgreport runs read-only diagnostics over a finished
// *cfg.Graph: the structural invariants spec.md §3 and §4.6 state the
// translator must uphold, plus informational findings (a dead-end break
// or continue) that are legal per spec.md's Open Question decision but
// still worth surfacing to a caller. It never mutates the graph and
// never fails a translation; package driver's Translate already enforces
// the invariants that can fail construction itself, so everything here
// is advisory.
//
// The reachability walk is adapted from the teacher's
// cfg/util.go:InitDFSOrder, generalized from a DOT-ID-sorted walk to a
// plain node-identity walk (sorting by DOT id existed only to support
// the teacher's now-deleted interval analysis).
package cfgreport

import (
	"fmt"

	"github.com/astcfg/cfgtranslate/cfg"
)

// Finding is one diagnostic observation about a graph.
type Finding struct {
	Kind    string
	Message string
	NodeID  int64
}

// Check runs every diagnostic and returns the findings, in no
// particular order. An empty result means the graph is structurally
// clean.
func Check(g *cfg.Graph) []Finding {
	var findings []Finding

	findings = append(findings, checkFrame(g)...)
	findings = append(findings, checkLabelsGone(g)...)
	findings = append(findings, checkDecisionArity(g)...)
	findings = append(findings, checkReachability(g)...)
	findings = append(findings, checkDeadEndControl(g)...)

	return findings
}

// checkFrame verifies the function bracket: exactly one Source with no
// incoming edges, exactly one Sink.
func checkFrame(g *cfg.Graph) []Finding {
	var findings []Finding
	src := g.Source()
	if src == nil {
		findings = append(findings, Finding{Kind: "missing-source", Message: "graph has no Source node"})
	} else if len(g.EdgesTo(src)) != 0 {
		findings = append(findings, Finding{Kind: "source-has-incoming", Message: "Source node has incoming edges", NodeID: src.ID()})
	}
	if g.Sink() == nil {
		findings = append(findings, Finding{Kind: "missing-sink", Message: "graph has no Sink node"})
	}
	return findings
}

// checkLabelsGone verifies invariant 3: no Label node or Label edge
// survives the label resolver.
func checkLabelsGone(g *cfg.Graph) []Finding {
	var findings []Finding
	for _, n := range g.NodeList() {
		if _, ok := n.Kind.(cfg.LabelPlaceholder); ok {
			findings = append(findings, Finding{Kind: "label-node-survived", Message: "Label placeholder node was not collapsed", NodeID: n.ID()})
		}
		for _, e := range g.EdgesFrom(n) {
			if _, ok := e.Kind.(cfg.EdgeLabel); ok {
				findings = append(findings, Finding{Kind: "label-edge-survived", Message: "Label edge was not collapsed", NodeID: n.ID()})
			}
		}
	}
	return findings
}

// checkDecisionArity verifies invariant 2: every Decision node has
// exactly one outgoing True edge and one outgoing False edge.
func checkDecisionArity(g *cfg.Graph) []Finding {
	var findings []Finding
	for _, n := range g.NodeList() {
		if _, ok := n.Kind.(cfg.Decision); !ok {
			continue
		}
		var trueCount, falseCount int
		for _, e := range g.EdgesFrom(n) {
			dec, ok := e.Kind.(cfg.EdgeDecision)
			if !ok {
				continue
			}
			if dec.Direction == cfg.True {
				trueCount++
			} else {
				falseCount++
			}
		}
		if trueCount != 1 || falseCount != 1 {
			findings = append(findings, Finding{
				Kind:    "decision-arity",
				Message: fmt.Sprintf("Decision node has %d True and %d False outgoing edges, want 1 and 1", trueCount, falseCount),
				NodeID:  n.ID(),
			})
		}
	}
	return findings
}

// checkReachability verifies every node in the graph is reachable from
// Source, depth-first.
func checkReachability(g *cfg.Graph) []Finding {
	src := g.Source()
	if src == nil {
		return nil
	}
	visited := make(map[int64]bool)
	walk(g, src, visited)

	var findings []Finding
	for _, n := range g.NodeList() {
		if !visited[n.ID()] {
			findings = append(findings, Finding{Kind: "unreachable", Message: "node is not reachable from Source", NodeID: n.ID()})
		}
	}
	return findings
}

func walk(g *cfg.Graph, n *cfg.Node, visited map[int64]bool) {
	if visited[n.ID()] {
		return
	}
	visited[n.ID()] = true
	for _, succ := range g.Successors(n) {
		walk(g, succ, visited)
	}
}

// checkDeadEndControl reports a Break or Continue, labeled or not, with
// no outgoing edge: legal per spec.md's Open Question decision (invariant
// 6), but worth surfacing since it means an unlabeled break/continue
// outside any breakable/continuable frame, or a labeled one whose label
// the resolver found no target for.
func checkDeadEndControl(g *cfg.Graph) []Finding {
	var findings []Finding
	for _, n := range g.NodeList() {
		ctl, ok := n.Kind.(cfg.Control)
		if !ok {
			continue
		}
		if ctl.Transfer != cfg.TransferBreak && ctl.Transfer != cfg.TransferContinue {
			continue
		}
		if len(g.EdgesFrom(n)) == 0 {
			findings = append(findings, Finding{
				Kind:    "dead-end-control",
				Message: fmt.Sprintf("%s has no enclosing frame and no label target", ctl.Transfer),
				NodeID:  n.ID(),
			})
		}
	}
	return findings
}
