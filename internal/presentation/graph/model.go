package graph

import (
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// StartNode is the identifier of the synthetic pseudo-node pointing at the start state.
const StartNode = "__start__"

// Model is the static part of a graph: the rules and the states they connect.
type Model struct {
	Rules  []domain.Rule
	States []domain.State
	Halts  []domain.State
	Start  domain.State
}

// Overlay contains dynamic engine data to visualize on the graph.
type Overlay struct {
	Current domain.State
	Phase   domain.Phase
}

// FromTable builds a Model from a compiled table.
func FromTable(table *compiler.RuleTable, halts []domain.State, start domain.State) Model {
	return Model{
		Rules:  table.Rules(),
		States: table.States(),
		Halts:  halts,
		Start:  start,
	}
}

// Describe renders the Graphviz description of a machine with its current
// state highlighted.
func Describe(table *compiler.RuleTable, halts []domain.State, start, current domain.State, phase domain.Phase) string {
	return GenerateDOT(FromTable(table, halts, start), &Overlay{Current: current, Phase: phase})
}

// PhaseColor returns the fill color of the current state for a phase.
func PhaseColor(p domain.Phase) string {
	switch p {
	case domain.PhaseNormal:
		return "lightgrey"
	case domain.PhaseHalted:
		return "orangered"
	case domain.PhaseMoveState:
		return "yellow"
	default:
		return "green"
	}
}

// nodes lists every state to draw: the declared ones, then any start, rule or
// halt state not already seen.
func (m Model) nodes() []domain.State {
	seen := make(map[domain.State]bool)
	var out []domain.State
	add := func(s domain.State) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, s := range m.States {
		add(s)
	}
	add(m.Start)
	for _, r := range m.drawable() {
		add(r.FromState)
		add(r.ToState)
	}
	for _, h := range m.Halts {
		add(h)
	}
	return out
}

// drawable drops rules that cannot become an edge.
func (m Model) drawable() []domain.Rule {
	out := make([]domain.Rule, 0, len(m.Rules))
	for _, r := range m.Rules {
		if r.FromState == "" || r.ToState == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m Model) isHalt(s domain.State) bool {
	for _, h := range m.Halts {
		if h == s {
			return true
		}
	}
	return false
}

// EdgeLabel renders "from → to, action", or "from, action" when the rule
// writes back the symbol it read. Missing fields render as "?".
func EdgeLabel(r domain.Rule) string {
	from := orUnknown(string(r.FromSymbol))
	to := orUnknown(string(r.ToSymbol))
	action := orUnknown(string(r.Action))

	if r.FromSymbol != "" && r.FromSymbol == r.ToSymbol {
		return from + ", " + action
	}
	return from + " → " + to + ", " + action
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
