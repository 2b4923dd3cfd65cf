package compiler

import (
	"strconv"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

// Check returns every strict-mode violation of cfg, configuration fields first
// and then at most one error per offending rule. A nil result means Compile
// will succeed in strict mode.
func Check(cfg domain.Config) []error {
	o := &options{}
	for _, opt := range configOptions(cfg) {
		opt(o)
	}

	errs := checkConfig(cfg, o)
	return append(errs, checkRules(cfg.Rules, o)...)
}

func checkConfig(cfg domain.Config, o *options) []error {
	var errs []error
	field := func(name, value string, err error) {
		errs = append(errs, &domain.ConstructionError{Index: -1, Field: name, Value: value, Err: err})
	}

	states := newSet(o.states...)
	symbols := newSet(o.symbols...)

	for _, s := range o.symbols {
		if !isSymbol(s) {
			field("symbols", string(s), domain.ErrInvalidSymbol)
		}
	}

	switch {
	case cfg.Start == "":
		field("start", "", domain.ErrEmptyField)
	case len(o.states) > 0 && !states.has(cfg.Start):
		field("start", string(cfg.Start), domain.ErrInvalidState)
	}

	for _, h := range cfg.Halt {
		switch {
		case h == "":
			field("halt", "", domain.ErrEmptyField)
		case len(o.states) > 0 && !states.has(h):
			field("halt", string(h), domain.ErrInvalidState)
		}
	}

	switch {
	case cfg.EmptySymbol == "":
		field("empty_symbol", "", domain.ErrEmptyField)
	case !isSymbol(cfg.EmptySymbol), len(o.symbols) > 0 && !symbols.has(cfg.EmptySymbol):
		field("empty_symbol", string(cfg.EmptySymbol), domain.ErrInvalidSymbol)
	}

	for _, c := range cfg.Tape {
		if !isSymbol(c) || (len(o.symbols) > 0 && !symbols.has(c)) {
			field("tape", string(c), domain.ErrInvalidSymbol)
		}
	}

	if len(cfg.Tape) > 0 && (cfg.Head < 0 || cfg.Head >= len(cfg.Tape)) {
		field("head", strconv.Itoa(cfg.Head), domain.ErrInvalidHeadIndex)
	}

	return errs
}

// checkRules validates each rule against the declared sets and reports the
// first violation of every offending rule.
func checkRules(rules []domain.Rule, o *options) []error {
	var errs []error

	states := newSet(o.states...)
	symbols := newSet(o.symbols...)
	seen := make(map[[2]string]struct{}, len(rules))

	for i := range rules {
		r := rules[i]
		fail := func(name, value string, err error) {
			errs = append(errs, &domain.ConstructionError{Index: i, Rule: &r, Field: name, Value: value, Err: err})
		}

		names := [5]string{"from_state", "from_symbol", "to_symbol", "action", "to_state"}
		empty := false
		for j, v := range r.Tuple() {
			if v == "" {
				fail(names[j], v, domain.ErrEmptyField)
				empty = true
				break
			}
		}
		if empty {
			continue
		}

		if len(o.states) > 0 {
			if !states.has(r.FromState) {
				fail("from_state", string(r.FromState), domain.ErrInvalidState)
				continue
			}
			if !states.has(r.ToState) {
				fail("to_state", string(r.ToState), domain.ErrInvalidState)
				continue
			}
		}

		if bad, name := badSymbol(r, symbols, len(o.symbols) > 0); bad != "" {
			fail(name, string(bad), domain.ErrInvalidSymbol)
			continue
		}

		if !r.Action.Valid() {
			fail("action", string(r.Action), domain.ErrInvalidHeadAction)
			continue
		}

		key := [2]string{string(r.FromState), string(r.FromSymbol)}
		if _, dup := seen[key]; dup {
			fail("from_symbol", string(r.FromSymbol), domain.ErrDuplicateRule)
			continue
		}
		seen[key] = struct{}{}
	}

	return errs
}

func badSymbol(r domain.Rule, declared *set[domain.Symbol], enforce bool) (domain.Symbol, string) {
	for _, c := range []struct {
		name string
		sym  domain.Symbol
	}{{"from_symbol", r.FromSymbol}, {"to_symbol", r.ToSymbol}} {
		if !isSymbol(c.sym) || (enforce && !declared.has(c.sym)) {
			return c.sym, c.name
		}
	}
	return "", ""
}

// isSymbol reports whether s is exactly one character long.
func isSymbol(s domain.Symbol) bool {
	return utf8.RuneCountInString(string(s)) == 1
}
