package ast

import (
	"encoding/json"

	"github.com/astcfg/cfgtranslate/cfgerr"
)

// wireNode mirrors the tagged JSON encoding of a Node: a "type"
// discriminator plus whichever fields that type needs. This is a test
// and demo-CLI fixture format only; the wire protocol and framing
// themselves are out of scope (spec.md §1) and are not implemented here.
type wireNode struct {
	Type  string          `json:"type"`
	Label string          `json:"label,omitempty"`
	Name  string          `json:"name,omitempty"`

	Body    *wireBlock `json:"body,omitempty"`
	Finally *wireBlock `json:"finally,omitempty"`
	Else    *wireNode  `json:"else,omitempty"`

	Init                          []string        `json:"init,omitempty"`
	Update                        []string         `json:"update,omitempty"`
	FirstIterationConditionCheck  bool             `json:"firstIterationConditionCheck,omitempty"`
	Condition                     *wireCondition   `json:"condition,omitempty"`

	Catches []wireCatch `json:"catches,omitempty"`

	Exception []string `json:"exception,omitempty"`
	Statement string   `json:"statement,omitempty"`
	Code      string   `json:"code,omitempty"`
	Line      int      `json:"line,omitempty"`
	Column    int      `json:"column,omitempty"`

	Expression    string `json:"expression,omitempty"`
	HasExpression bool   `json:"hasExpression,omitempty"`
}

type wireBlock struct {
	Label       string      `json:"label,omitempty"`
	Statements  []wireNode  `json:"statements"`
	Breakable   bool        `json:"breakable,omitempty"`
	Continuable bool        `json:"continuable,omitempty"`
}

type wireCatch struct {
	Label          string    `json:"label,omitempty"`
	ExceptionTypes []string  `json:"exceptionTypes"`
	Body           wireBlock `json:"body"`
}

type wireCondition struct {
	Type  string         `json:"type"`
	Expr  string         `json:"expr,omitempty"`
	Line  int            `json:"line,omitempty"`
	Column int           `json:"column,omitempty"`
	Left  *wireCondition `json:"left,omitempty"`
	Right *wireCondition `json:"right,omitempty"`
}

// DecodeFunction parses a JSON-encoded Function fixture, such as the file
// the cmd/cfgtranslate demo CLI reads through its -in flag.
func DecodeFunction(data []byte) (*Function, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, cfgerr.MalformedAstf("Function", "invalid JSON: %v", err)
	}
	if w.Type != "Function" {
		return nil, cfgerr.MalformedAstf("Function.type", "expected %q, got %q", "Function", w.Type)
	}
	body, err := decodeBlock(w.Body)
	if err != nil {
		return nil, err
	}
	return &Function{
		Meta: Meta{LabelText: w.Label},
		Name: w.Name,
		Body: body,
	}, nil
}

func decodeBlock(b *wireBlock) (*Block, error) {
	if b == nil {
		return &Block{}, nil
	}
	stmts := make([]Node, 0, len(b.Statements))
	for i := range b.Statements {
		n, err := decodeNode(&b.Statements[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	return &Block{
		Meta:        Meta{LabelText: b.Label},
		Statements:  stmts,
		Breakable:   b.Breakable,
		Continuable: b.Continuable,
	}, nil
}

func decodeNode(w *wireNode) (Node, error) {
	meta := Meta{LabelText: w.Label}
	switch w.Type {
	case "Block":
		body, err := decodeBlock(w.Body)
		if err != nil {
			return nil, err
		}
		body.LabelText = w.Label
		return body, nil

	case "Statement":
		return &Statement{Meta: meta, Code: w.Code, Pos: Position{Line: w.Line, Column: w.Column}}, nil

	case "Loop":
		cond, err := decodeCondition(w.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(w.Body)
		if err != nil {
			return nil, err
		}
		return &Loop{
			Meta:                          meta,
			Init:                          w.Init,
			Update:                        w.Update,
			FirstIterationConditionCheck:  w.FirstIterationConditionCheck,
			Condition:                     cond,
			Body:                          body,
		}, nil

	case "DecisionBlock":
		cond, err := decodeCondition(w.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(w.Body)
		if err != nil {
			return nil, err
		}
		var elseNode Node
		if w.Else != nil {
			elseNode, err = decodeNode(w.Else)
			if err != nil {
				return nil, err
			}
		}
		return &DecisionBlock{Meta: meta, Condition: cond, Body: body, Else: elseNode}, nil

	case "TryBlock":
		body, err := decodeBlock(w.Body)
		if err != nil {
			return nil, err
		}
		var finally *Block
		if w.Finally != nil {
			finally, err = decodeBlock(w.Finally)
			if err != nil {
				return nil, err
			}
		}
		catches := make([]*CatchBlock, 0, len(w.Catches))
		for _, c := range w.Catches {
			cb, err := decodeBlock(&c.Body)
			if err != nil {
				return nil, err
			}
			catches = append(catches, &CatchBlock{
				Meta:           Meta{LabelText: c.Label},
				ExceptionTypes: c.ExceptionTypes,
				Body:           cb,
			})
		}
		return &TryBlock{Meta: meta, Body: body, Catches: catches, Finally: finally}, nil

	case "Throw":
		if len(w.Exception) == 0 {
			return nil, cfgerr.NotSupportedf("Throw statements must have at least one exception")
		}
		return &Throw{Meta: meta, Exception: w.Exception, Statement: w.Statement, Pos: Position{Line: w.Line, Column: w.Column}}, nil

	case "Yield":
		return &Yield{Meta: meta, Statement: w.Statement}, nil

	case "Break":
		return &Break{Meta: meta}, nil

	case "Continue":
		return &Continue{Meta: meta}, nil

	case "Return":
		return &Return{Meta: meta, Expression: w.Expression, HasExpression: w.HasExpression}, nil

	default:
		return nil, cfgerr.MalformedAstf("Node.type", "unrecognized node type %q", w.Type)
	}
}

func decodeCondition(w *wireCondition) (Condition, error) {
	if w == nil {
		return Empty{}, nil
	}
	switch w.Type {
	case "", "Empty":
		return Empty{}, nil
	case "Unit":
		return Unit{Expr: w.Expr, Pos: Position{Line: w.Line, Column: w.Column}}, nil
	case "And":
		left, err := decodeCondition(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeCondition(w.Right)
		if err != nil {
			return nil, err
		}
		return And{Left: left, Right: right}, nil
	case "Or":
		left, err := decodeCondition(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeCondition(w.Right)
		if err != nil {
			return nil, err
		}
		return Or{Left: left, Right: right}, nil
	default:
		return nil, cfgerr.MalformedAstf("Condition.type", "unrecognized condition type %q", w.Type)
	}
}
