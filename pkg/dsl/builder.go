package dsl

import (
	"fmt"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the machine construction.
type Builder struct {
	cfg   domain.Config
	rules []*RuleBuilder
}

// New creates a new machine builder starting in state start. The empty symbol
// defaults to "_".
func New(start string) *Builder {
	return &Builder{
		cfg: domain.Config{
			Start:       domain.State(start),
			EmptySymbol: "_",
		},
	}
}

// Blank sets the empty symbol.
func (b *Builder) Blank(symbol string) *Builder {
	b.cfg.EmptySymbol = domain.Symbol(symbol)
	return b
}

// Halt declares halt states.
func (b *Builder) Halt(states ...string) *Builder {
	for _, s := range states {
		b.cfg.Halt = append(b.cfg.Halt, domain.State(s))
	}
	return b
}

// Tape sets the initial tape, one symbol per rune, with the head on cell 0.
func (b *Builder) Tape(cells string) *Builder {
	b.cfg.Tape = b.cfg.Tape[:0]
	for _, r := range cells {
		b.cfg.Tape = append(b.cfg.Tape, domain.Symbol(string(r)))
	}
	b.cfg.Head = 0
	return b
}

// Cells sets the initial tape cell by cell, with the head on cell 0. Strict
// machines only accept single-rune symbols.
func (b *Builder) Cells(cells ...string) *Builder {
	b.cfg.Tape = b.cfg.Tape[:0]
	for _, c := range cells {
		b.cfg.Tape = append(b.cfg.Tape, domain.Symbol(c))
	}
	b.cfg.Head = 0
	return b
}

// Head places the head on the given cell.
func (b *Builder) Head(index int) *Builder {
	b.cfg.Head = index
	return b
}

// On starts a rule matching state and symbol. The rule keeps the symbol and
// stays in place until told otherwise.
func (b *Builder) On(state, symbol string) *RuleBuilder {
	rb := &RuleBuilder{
		rule: domain.Rule{
			FromState:  domain.State(state),
			FromSymbol: domain.Symbol(symbol),
			ToSymbol:   domain.Symbol(symbol),
			Action:     domain.Stay,
			ToState:    domain.State(state),
		},
		builder: b,
	}
	b.rules = append(b.rules, rb)
	return rb
}

// Config returns the machine configuration in declaration order, without
// validating it.
func (b *Builder) Config() domain.Config {
	cfg := b.cfg.Clone()
	cfg.Rules = make([]domain.Rule, 0, len(b.rules))
	for _, rb := range b.rules {
		cfg.Rules = append(cfg.Rules, rb.rule)
	}
	return cfg
}

// Build returns the configuration after strict validation. All violations are
// joined in the returned error.
func (b *Builder) Build() (domain.Config, error) {
	cfg := b.Config()
	if errs := compiler.Check(cfg); len(errs) > 0 {
		return domain.Config{}, fmt.Errorf("failed to build machine: %w", &domain.AggregateError{Errors: errs})
	}
	return cfg, nil
}
