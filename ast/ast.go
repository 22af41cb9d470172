// Package ast is the read-only input model consumed by the lower and
// driver packages: a structured tree of function bodies, loops,
// decisions, try/catch, throw/yield/break/continue/return, statements,
// and short-circuiting boolean conditions.
//
// Node is a closed, tagged-variant tree. Every consumer dispatches over
// it with an exhaustive type switch (see lower.lowerStatement); there is
// no virtual method hierarchy, matching the design note in spec.md §9.
package ast

// Position is an optional, best-effort source location. A zero Position
// means "unknown" and is not required by any operation; see
// SPEC_FULL.md §4.9.
type Position struct {
	Line   int
	Column int
}

// Meta carries the fields every AST node optionally has: an attached
// label. For a labelable construct (Loop, DecisionBlock, TryBlock, a
// Block used as an else-clause, ...) it is the label a break/continue
// elsewhere in the tree may reference. For a Break/Continue node itself
// it is, symmetrically, the label being referenced (empty means
// unlabeled). spec.md §6.1 describes both roles with the same "label"
// field; Meta is the single field that plays both roles depending on
// which node embeds it.
type Meta struct {
	LabelText string
}

// Label returns the node's attached label, or "" if it has none.
func (m Meta) Label() string { return m.LabelText }

// Node is the marker interface implemented by every concrete AST node
// type in this package.
type Node interface {
	Label() string
	isNode()
}

// Function is a method body: the root a Driver accepts.
type Function struct {
	Meta
	// Name is empty for an anonymous function; the Driver rejects that
	// case with cfgerr.TopLevelAnonMethod.
	Name string
	Body *Block
}

func (*Function) isNode() {}

// Block is an ordered sequence of statements plus the breakable and
// continuable flags described in spec.md §4.4. It is itself a Node so
// that it can appear as the else-branch of a DecisionBlock (a bare
// "else { ... }" clause) as well as being the container type of a
// Function, Loop, DecisionBlock "then" arm, TryBlock body/finally, and
// CatchBlock body.
type Block struct {
	Meta
	Statements []Node
	// Breakable and Continuable are decoded from the input and kept here,
	// but package lower does not read them: an unlabeled break/continue
	// targets the nearest enclosing Loop, and a block marked Breakable or
	// Continuable does not become a break/continue target itself.
	Breakable   bool
	Continuable bool
}

func (*Block) isNode() {}

// Loop covers every structural loop variant (pre-test/post-test,
// with/without init, update, body, condition); spec.md §4.5.2 collapses
// all of them into one graph shape.
type Loop struct {
	Meta
	Init                         []string
	Update                       []string
	FirstIterationConditionCheck bool
	Condition                    Condition
	Body                         *Block
}

func (*Loop) isNode() {}

// DecisionBlock is an if/elif/else construct. Else is nil when there is
// no else-clause; otherwise it is either a *Block (a bare else-clause)
// or another *DecisionBlock (an elif, chained structurally).
type DecisionBlock struct {
	Meta
	Condition Condition
	Body      *Block
	Else      Node
}

func (*DecisionBlock) isNode() {}

// TryBlock is a try/catch/finally construct. Finally is nil when absent.
type TryBlock struct {
	Meta
	Body    *Block
	Catches []*CatchBlock
	Finally *Block
}

func (*TryBlock) isNode() {}

// CatchBlock declares one or more exception tags handled by Body.
type CatchBlock struct {
	Meta
	ExceptionTypes []string
	Body           *Block
}

// Throw raises one of a non-empty list of exception tags.
type Throw struct {
	Meta
	Exception []string
	Statement string
	Pos       Position
}

func (*Throw) isNode() {}

// Statement is an ordinary, non-control-transferring statement.
type Statement struct {
	Meta
	Code string
	Pos  Position
}

func (*Statement) isNode() {}

// Yield is always rejected by the lowering (spec.md §4.5.8); it is
// modeled here only so that rejecting it is explicit rather than an
// unrecognized-node error.
type Yield struct {
	Meta
	Statement string
}

func (*Yield) isNode() {}

// Break transfers to the nearest enclosing breakable frame, or (if
// Label() is non-empty) to the frame carrying that label.
type Break struct {
	Meta
}

func (*Break) isNode() {}

// Continue transfers to the nearest enclosing continuable frame, or (if
// Label() is non-empty) to the frame carrying that label.
type Continue struct {
	Meta
}

func (*Continue) isNode() {}

// Return exits the function frame, optionally carrying a value.
type Return struct {
	Meta
	Expression    string
	HasExpression bool
}

func (*Return) isNode() {}

// Condition is the tagged variant of a boolean expression tree:
// Unit, And, Or, or Empty.
type Condition interface {
	isCondition()
}

// Unit is a single boolean expression (a leaf condition).
type Unit struct {
	Expr string
	Pos  Position
}

func (Unit) isCondition() {}

// And is the short-circuiting conjunction of Left and Right.
type And struct {
	Left, Right Condition
}

func (And) isCondition() {}

// Or is the short-circuiting disjunction of Left and Right.
type Or struct {
	Left, Right Condition
}

func (Or) isCondition() {}

// Empty is the absence of a condition (an unconditional branch, or a
// loop with no test).
type Empty struct{}

func (Empty) isCondition() {}
