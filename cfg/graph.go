// Package cfg provides the in-memory control flow graph model produced by
// the lower and labelresolve packages.
//
// A Graph is a mutable directed multigraph: two distinct edges may share
// the same endpoints (for example a Decision node whose true and false
// branch both fall through to the same join node). AddEdge does not
// compare the kinds of parallel edges. Node identity is stable for the lifetime of the graph: ids are
// allocated from a monotonic counter and are never reused, even across
// node removal, since the loop and label lowering in package lower
// create and delete placeholder nodes as part of normal construction.
package cfg

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/multi"
)

// Graph is a control flow graph.
type Graph struct {
	*multi.DirectedGraph
	// nextNodeID allocates node ids. It only ever increases, so no id is
	// handed out twice, even after the node holding it is removed.
	nextNodeID int64
	// nextLineID allocates unique ids for edges (gonum "lines"), since a
	// multigraph may hold more than one line between the same node pair.
	nextLineID int64
	// source is the entry node of the function frame, set once by the
	// function-block lowering.
	source *Node
	// sink is the exit node of the function frame.
	sink *Node
	// labels records every Label placeholder created during loop
	// lowering, keyed by its label text, so the label resolver can find
	// them without needing them to be reachable by a graph walk (a Label
	// placeholder, as constructed, carries no incoming edges; see
	// DESIGN.md's Label Resolver discovery decision).
	labels map[string]*Node
}

// NewGraph returns a new, empty control flow graph.
func NewGraph() *Graph {
	return &Graph{
		DirectedGraph: multi.NewDirectedGraph(),
	}
}

// Source returns the function frame's entry node, or nil if it has not
// been set yet (SetSource has not been called).
func (g *Graph) Source() *Node { return g.source }

// Sink returns the function frame's exit node, or nil if it has not been
// set yet.
func (g *Graph) Sink() *Node { return g.sink }

// SetSource records n as the graph's entry node. It panics if an entry
// node has already been recorded; a function frame has exactly one
// Source (invariant 1 of the data model).
func (g *Graph) SetSource(n *Node) {
	if g.source != nil {
		panic(fmt.Errorf("entry node already set in graph; prev %#v, new %#v", g.source, n))
	}
	g.source = n
}

// SetSink records n as the graph's exit node. It panics if an exit node
// has already been recorded.
func (g *Graph) SetSink(n *Node) {
	if g.sink != nil {
		panic(fmt.Errorf("exit node already set in graph; prev %#v, new %#v", g.sink, n))
	}
	g.sink = n
}

// RegisterLabel records n as the Label placeholder node for the given
// label text. Lowering calls this once per labeled loop; the label
// resolver consults it by text instead of rediscovering placeholders by
// walking the graph.
func (g *Graph) RegisterLabel(text string, n *Node) {
	if g.labels == nil {
		g.labels = make(map[string]*Node)
	}
	g.labels[text] = n
}

// Label returns the registered Label placeholder for text, or nil.
func (g *Graph) Label(text string) *Node { return g.labels[text] }

// Labels returns every registered (text, placeholder) pair. The label
// resolver iterates this to run the final placeholder-collapse pass.
func (g *Graph) Labels() map[string]*Node { return g.labels }

// ~~~ [ graph.NodeAdder ] ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~

// NewNode returns a new, unattached node with a unique id and the given
// kind and optional label. Unlike gonum's graph.NodeAdder contract, this
// does not add the node to the graph; call AddNode (or rely on SetLine's
// implicit add) to do so.
func (g *Graph) NewNode(kind NodeKind, label string) *Node {
	id := g.nextNodeID
	g.nextNodeID++
	return &Node{id: id, Label: label, Kind: kind}
}

// AddNode adds a node to the graph. It panics if a node with the same id
// is already present (which cannot happen for ids obtained via NewNode
// on this graph).
func (g *Graph) AddNode(n *Node) {
	g.DirectedGraph.AddNode(n)
}

// RemoveNode removes n and all of its incident edges from the graph. It
// is used by placeholder collapse (loop lowering's continue/fall-through
// sinks) and by the label resolver (Label node deletion).
func (g *Graph) RemoveNode(n *Node) {
	g.DirectedGraph.RemoveNode(n.ID())
}

// ~~~ [ edges ] ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~

// AddEdge creates and inserts a new edge of the given kind from "from" to
// "to", returning it. Both endpoints must already be in the graph.
func (g *Graph) AddEdge(from, to *Node, kind EdgeKind) *Edge {
	g.nextLineID++
	e := &Edge{id: g.nextLineID, from: from, to: to, Kind: kind}
	g.DirectedGraph.SetLine(e)
	return e
}

// EdgesFrom returns every outgoing edge of n, in no particular order.
func (g *Graph) EdgesFrom(n *Node) []*Edge {
	var out []*Edge
	it := g.DirectedGraph.From(n.ID())
	for it.Next() {
		succ := it.Node()
		lines := g.DirectedGraph.Lines(n.ID(), succ.ID())
		for lines.Next() {
			out = append(out, lines.Line().(*Edge))
		}
	}
	return out
}

// EdgesTo returns every incoming edge of n, in no particular order.
func (g *Graph) EdgesTo(n *Node) []*Edge {
	var in []*Edge
	it := g.DirectedGraph.To(n.ID())
	for it.Next() {
		pred := it.Node()
		lines := g.DirectedGraph.Lines(pred.ID(), n.ID())
		for lines.Next() {
			in = append(in, lines.Line().(*Edge))
		}
	}
	return in
}

// RemoveEdge removes a single edge (gonum "line") from the graph.
func (g *Graph) RemoveEdge(e *Edge) {
	g.DirectedGraph.RemoveLine(e.from.ID(), e.to.ID(), e.id)
}

// Successors returns the distinct nodes reachable from n by one edge.
func (g *Graph) Successors(n *Node) []*Node {
	var out []*Node
	it := g.DirectedGraph.From(n.ID())
	for it.Next() {
		out = append(out, it.Node().(*Node))
	}
	return out
}

// Predecessors returns the distinct nodes with an edge to n.
func (g *Graph) Predecessors(n *Node) []*Node {
	var out []*Node
	it := g.DirectedGraph.To(n.ID())
	for it.Next() {
		out = append(out, it.Node().(*Node))
	}
	return out
}

// NodeList returns every node currently in the graph, in no particular
// order. Named NodeList rather than Nodes so that gonum's own
// Nodes() graph.Nodes stays promoted from *multi.DirectedGraph: a
// same-named override with a different signature would shadow it, and
// *Graph would stop satisfying graph.Graph — which package cfgdot's
// dot.Marshal requires.
func (g *Graph) NodeList() []*Node {
	var out []*Node
	it := g.DirectedGraph.Nodes()
	for it.Next() {
		out = append(out, it.Node().(*Node))
	}
	return out
}

// === [ Node ] ================================================================

// Position is an optional best-effort source location carried alongside
// statement-bearing node payloads. A zero Position means "unknown" and
// participates in no invariant; see SPEC_FULL.md §4.9.
type Position struct {
	Line   int
	Column int
}

// Node is a node in a control flow graph. Kind is a tagged variant (see
// NodeKind); dispatch over it is always an exhaustive type switch, never
// a virtual method hierarchy, per the design note in spec.md §9.
type Node struct {
	id int64
	// Label is optional diagnostic or identifying text. For a Source or
	// Sink it doubles as the function name; for a placeholder Label node
	// it is the label text used by the label resolver; for a
	// ControlNode(Break|Continue) it is the AST label the transfer
	// targets (empty for an unlabeled break/continue).
	Label string
	Kind  NodeKind
}

// ID implements gonum's graph.Node.
func (n *Node) ID() int64 { return n.id }

func (n *Node) String() string {
	if n.Label != "" {
		return fmt.Sprintf("%s(%s)", n.Kind.kindName(), n.Label)
	}
	return n.Kind.kindName()
}

// DOTID implements gonum's encoding/dot.Node, used by package cfgdot.
// The node's id (not its kind/label) is the DOT identifier, since two
// nodes may share an identical kind and label (e.g. two placeholder
// Sinks); the descriptive text is carried as an attribute instead.
func (n *Node) DOTID() string { return fmt.Sprintf("n%d", n.id) }

// Attributes implements gonum's encoding.Attributer, used by package
// cfgdot to label each node with its kind and payload in the exported
// DOT file.
func (n *Node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(n.String())}}
}

// NodeKind is the tagged variant of node payloads described in spec.md
// §3. Every concrete kind implements kindName purely for diagnostics;
// lowering code type-switches on the concrete type, never on kindName.
type NodeKind interface {
	kindName() string
	isNodeKind()
}

// Source is the unique entry of a function frame.
type Source struct{ Name string }

func (Source) kindName() string { return "Source" }
func (Source) isNodeKind()      {}

// Sink is the exit of a function frame. It is also used, transiently, as
// a placeholder target (loop continue/fall-through sinks) before the
// real target is known; a placeholder Sink carries a diagnostic Name
// such as "dummy continue" in the owning Node's Label field.
type Sink struct{ Name string }

func (Sink) kindName() string { return "Sink" }
func (Sink) isNodeKind()      {}

// Statement is a single, non-control-transferring program statement.
type Statement struct {
	Code string
	Pos  Position
}

func (Statement) kindName() string { return "Statement" }
func (Statement) isNodeKind()      {}

// Decision is a two-way branch node; after condition lowering completes
// it has exactly one outgoing True edge and one outgoing False edge
// (invariant 2).
type Decision struct {
	Expression string
	Pos        Position
}

func (Decision) kindName() string { return "Decision" }
func (Decision) isNodeKind()      {}

// Transfer enumerates the kinds of non-local control transfer a
// ControlNode can carry.
type Transfer int

const (
	TransferBreak Transfer = iota
	TransferContinue
	TransferReturn
	TransferYield
)

func (t Transfer) String() string {
	switch t {
	case TransferBreak:
		return "Break"
	case TransferContinue:
		return "Continue"
	case TransferReturn:
		return "Return"
	case TransferYield:
		return "Yield"
	default:
		return "Transfer(?)"
	}
}

// Control is a leaf node carrying a non-local control transfer. Expr
// holds the optional Return expression payload; it is unused for the
// other transfer kinds.
type Control struct {
	Transfer Transfer
	Expr     string
}

func (Control) kindName() string { return "Control" }
func (Control) isNodeKind()      {}

// Exception is the source of a thrown edge.
type Exception struct {
	Statement string
	Pos       Position
}

func (Exception) kindName() string { return "Exception" }
func (Exception) isNodeKind()      {}

// LabelPlaceholder is a transient node deleted by the label resolver
// (spec.md §4.6). Its owning Node.Label carries the label text.
type LabelPlaceholder struct{}

func (LabelPlaceholder) kindName() string { return "Label" }
func (LabelPlaceholder) isNodeKind()      {}

// === [ Edge ] ================================================================

// Edge is a directed edge (gonum "line") in a control flow graph.
type Edge struct {
	id       int64
	from, to *Node
	Kind     EdgeKind
}

// From implements gonum's graph.Line.
func (e *Edge) From() graph.Node { return e.from }

// To implements gonum's graph.Line.
func (e *Edge) To() graph.Node { return e.to }

// ID implements gonum's graph.Line. It distinguishes parallel edges
// between the same node pair.
func (e *Edge) ID() int64 { return e.id }

// ReversedLine implements gonum's graph.Line.
func (e *Edge) ReversedLine() graph.Line {
	return &Edge{id: e.id, from: e.to, to: e.from, Kind: e.Kind}
}

// FromNode returns the typed source endpoint.
func (e *Edge) FromNode() *Node { return e.from }

// ToNode returns the typed destination endpoint.
func (e *Edge) ToNode() *Node { return e.to }

func (e *Edge) String() string {
	return fmt.Sprintf("%v -%s-> %v", e.from, e.Kind.kindName(), e.to)
}

// Attributes implements gonum's encoding.Attributer, used by package
// cfgdot to label each edge with its kind in the exported DOT file.
func (e *Edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(e.Kind.kindName())}}
}

// EdgeKind is the tagged variant of edge payloads described in spec.md
// §3.
type EdgeKind interface {
	kindName() string
	isEdgeKind()
}

// EdgeStatement is an unconditional fall-through edge.
type EdgeStatement struct{}

func (EdgeStatement) kindName() string { return "Statement" }
func (EdgeStatement) isEdgeKind()      {}

// Direction distinguishes the two branches of a Decision.
type Direction int

const (
	True Direction = iota
	False
)

func (d Direction) String() string {
	if d == True {
		return "True"
	}
	return "False"
}

// EdgeDecision is a conditional branch out of a Decision node.
type EdgeDecision struct{ Direction Direction }

func (EdgeDecision) kindName() string { return "Decision" }
func (EdgeDecision) isEdgeKind()      {}

// EdgeException is an exceptional transfer, carrying the exception tag
// it conveys.
type EdgeException struct{ Type string }

func (EdgeException) kindName() string { return "Exception" }
func (EdgeException) isEdgeKind()      {}

// LabelEdgeKind distinguishes the three roles a Label placeholder's
// outgoing edges can play; see spec.md §3 and §4.5.2/§4.6.
type LabelEdgeKind int

const (
	LabelNext LabelEdgeKind = iota
	LabelBreak
	LabelContinue
)

// EdgeLabel is an edge emanating from a placeholder Label node,
// expressing what a labeled break/continue bound to that label should
// target. No EdgeLabel survives the label resolver (invariant 3).
type EdgeLabel struct{ Kind LabelEdgeKind }

func (EdgeLabel) kindName() string { return "Label" }
func (EdgeLabel) isEdgeKind()      {}
