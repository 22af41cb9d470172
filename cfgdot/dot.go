// Package cfgdot exports a *cfg.Graph to Graphviz DOT, the named
// external-collaborator interface spec.md §1 defers to a downstream
// tool rather than implementing itself. Every node and edge carries a
// "label" attribute (cfg.Node.Attributes / cfg.Edge.Attributes) showing
// its kind and payload, so the exported file is useful for debugging a
// translation by eye (matching the teacher's own cfg/encoding.go, which
// this package adapts to the multigraph cfg.Graph).
//
// Round-tripping a DOT file back into a *cfg.Graph is not implemented:
// no SPEC_FULL.md operation consumes DOT as input, only produces it, and
// gonum's dot.Unmarshal expects a Builder whose NewNode takes no
// arguments, which cfg.Graph's NewNode(kind, label) does not satisfy
// without a second, parallel node type purely for decoding — a cost this
// package does not pay since the behavior has no caller. See DESIGN.md.
package cfgdot

import (
	"fmt"

	"gonum.org/v1/gonum/graph/encoding/dot"

	"github.com/astcfg/cfgtranslate/cfg"
)

// Marshal renders g as a Graphviz DOT graph named name.
func Marshal(g *cfg.Graph, name string) (string, error) {
	data, err := dot.Marshal(g, name, "", "\t", false)
	if err != nil {
		return "", fmt.Errorf("marshal control flow graph to DOT: %w", err)
	}
	return string(data), nil
}
