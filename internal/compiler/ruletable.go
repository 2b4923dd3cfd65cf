package compiler

import (
	"github.com/aretw0/turing/pkg/domain"
)

// RuleTable maps (state, symbol) to the transition to perform.
// It is built once and never mutated.
type RuleTable struct {
	rows    map[domain.State]map[domain.Symbol]domain.Transition
	rules   []domain.Rule
	states  []domain.State
	symbols []domain.Symbol
	strict  bool
}

// Build compiles rules into a RuleTable.
//
// In strict mode the first violation aborts construction with a
// *domain.ConstructionError. In permissive mode no validation happens:
// duplicates overwrite earlier rules and unknown head actions pass through.
func Build(rules []domain.Rule, strict bool, opts ...Option) (*RuleTable, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if strict {
		if errs := checkRules(rules, o); len(errs) > 0 {
			return nil, errs[0]
		}
	}

	return build(rules, strict, o), nil
}

// Compile builds the table for a whole configuration. Strict mode also
// validates the start, halt and empty symbol values and the initial tape.
func Compile(cfg domain.Config, strict bool) (*RuleTable, error) {
	if strict {
		if errs := Check(cfg); len(errs) > 0 {
			return nil, errs[0]
		}
	}

	o := &options{}
	for _, opt := range configOptions(cfg) {
		opt(o)
	}
	return build(cfg.Rules, strict, o), nil
}

func build(rules []domain.Rule, strict bool, o *options) *RuleTable {
	t := &RuleTable{
		rows:   make(map[domain.State]map[domain.Symbol]domain.Transition),
		rules:  make([]domain.Rule, len(rules)),
		strict: strict,
	}
	copy(t.rules, rules)

	for _, r := range rules {
		row, ok := t.rows[r.FromState]
		if !ok {
			row = make(map[domain.Symbol]domain.Transition)
			t.rows[r.FromState] = row
		}
		row[r.FromSymbol] = domain.Transition{
			ToState:  r.ToState,
			ToSymbol: r.ToSymbol,
			Action:   r.Action,
		}
	}

	t.states = knownStates(rules, strict, o).items()
	t.symbols = knownSymbols(rules, strict, o).items()
	return t
}

// knownStates is the declared state set of a strict table. Otherwise, and
// always in permissive mode, it is the union of start, every state named by a
// rule, and the halt states.
func knownStates(rules []domain.Rule, strict bool, o *options) *set[domain.State] {
	if strict && len(o.states) > 0 {
		return newSet(o.states...)
	}
	s := newSet(o.start)
	for _, r := range rules {
		s.add(r.FromState, r.ToState)
	}
	s.add(o.halt...)
	return s
}

// knownSymbols mirrors knownStates: empty symbol, rule symbols and the
// initial tape, unless a strict table declares its alphabet.
func knownSymbols(rules []domain.Rule, strict bool, o *options) *set[domain.Symbol] {
	if strict && len(o.symbols) > 0 {
		return newSet(o.symbols...)
	}
	s := newSet(o.empty)
	for _, r := range rules {
		s.add(r.FromSymbol, r.ToSymbol)
	}
	s.add(o.tape...)
	return s
}

// Get returns the transition for (state, symbol).
func (t *RuleTable) Get(state domain.State, symbol domain.Symbol) (domain.Transition, bool) {
	row, ok := t.rows[state]
	if !ok {
		return domain.Transition{}, false
	}
	tr, ok := row[symbol]
	return tr, ok
}

// HasState reports whether state has at least one outgoing rule.
func (t *RuleTable) HasState(state domain.State) bool {
	_, ok := t.rows[state]
	return ok
}

// Row returns a copy of the transitions leaving state.
func (t *RuleTable) Row(state domain.State) (map[domain.Symbol]domain.Transition, bool) {
	row, ok := t.rows[state]
	if !ok {
		return nil, false
	}
	out := make(map[domain.Symbol]domain.Transition, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, true
}

// Rules returns the rules in input order, duplicates included.
func (t *RuleTable) Rules() []domain.Rule {
	out := make([]domain.Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// States returns the known states: declared order, or first appearance when inferred.
func (t *RuleTable) States() []domain.State {
	out := make([]domain.State, len(t.states))
	copy(out, t.states)
	return out
}

// Symbols returns the known alphabet.
func (t *RuleTable) Symbols() []domain.Symbol {
	out := make([]domain.Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Strict reports the mode the table was built in.
func (t *RuleTable) Strict() bool {
	return t.strict
}
