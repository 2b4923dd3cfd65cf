package domain

import (
	"fmt"
	"strings"
)

// State names a control location of the machine.
type State string

// Symbol is a single tape cell value.
type Symbol string

// HeadAction tells the tape head where to go after a write.
type HeadAction string

const (
	Left  HeadAction = "L"
	Right HeadAction = "R"
	Stay  HeadAction = "N"
)

// Valid reports whether a is one of the three legal tokens.
func (a HeadAction) Valid() bool {
	switch a {
	case Left, Right, Stay:
		return true
	}
	return false
}

// HeadOp is the visual marker drawn under the tape head.
type HeadOp string

const (
	HeadIdle  HeadOp = "^"
	HeadLeft  HeadOp = "<"
	HeadRight HeadOp = ">"
	HeadStay  HeadOp = "-"
)

// Op returns the marker announcing the movement. Unknown actions behave as Stay.
func (a HeadAction) Op() HeadOp {
	switch a {
	case Left:
		return HeadLeft
	case Right:
		return HeadRight
	default:
		return HeadStay
	}
}

// Rule is a single entry of the machine program.
type Rule struct {
	FromState  State      `json:"from_state" yaml:"from_state" mapstructure:"from_state"`
	FromSymbol Symbol     `json:"from_symbol" yaml:"from_symbol" mapstructure:"from_symbol"`
	ToSymbol   Symbol     `json:"to_symbol" yaml:"to_symbol" mapstructure:"to_symbol"`
	Action     HeadAction `json:"action" yaml:"action" mapstructure:"action"`
	ToState    State      `json:"to_state" yaml:"to_state" mapstructure:"to_state"`
}

// String renders the rule as the comma separated tuple used by editors.
func (r Rule) String() string {
	return strings.Join([]string{
		string(r.FromState),
		string(r.FromSymbol),
		string(r.ToSymbol),
		string(r.Action),
		string(r.ToState),
	}, ",")
}

// Tuple returns the rule fields in declaration order.
func (r Rule) Tuple() [5]string {
	return [5]string{
		string(r.FromState),
		string(r.FromSymbol),
		string(r.ToSymbol),
		string(r.Action),
		string(r.ToState),
	}
}

// RuleFromTuple builds a rule from up to five fields. Missing trailing fields stay empty.
func RuleFromTuple(fields []string) (Rule, error) {
	if len(fields) > 5 {
		return Rule{}, fmt.Errorf("rule has %d fields, want 5", len(fields))
	}
	var f [5]string
	copy(f[:], fields)
	return Rule{
		FromState:  State(strings.TrimSpace(f[0])),
		FromSymbol: Symbol(f[1]),
		ToSymbol:   Symbol(f[2]),
		Action:     HeadAction(strings.TrimSpace(f[3])),
		ToState:    State(strings.TrimSpace(f[4])),
	}, nil
}

// ParseRule parses "q0,1,1,R,q0".
func ParseRule(s string) (Rule, error) {
	return RuleFromTuple(strings.Split(s, ","))
}

// Transition is the right hand side of a rule, as stored in a rule table.
type Transition struct {
	ToState  State      `json:"to_state"`
	ToSymbol Symbol     `json:"to_symbol"`
	Action   HeadAction `json:"action"`
}
