package compiler

import "github.com/aretw0/turing/pkg/domain"

type options struct {
	states  []domain.State
	symbols []domain.Symbol

	// seeds for inference
	start domain.State
	halt  []domain.State
	empty domain.Symbol
	tape  []domain.Symbol
}

// Option configures Build.
type Option func(*options)

// WithStates declares the valid state set. Strict mode rejects any other state.
func WithStates(states ...domain.State) Option {
	return func(o *options) {
		o.states = append(o.states, states...)
	}
}

// WithSymbols declares the valid alphabet. Strict mode rejects any other symbol.
func WithSymbols(symbols ...domain.Symbol) Option {
	return func(o *options) {
		o.symbols = append(o.symbols, symbols...)
	}
}

// WithStart adds the start state to the inferred state set.
func WithStart(start domain.State) Option {
	return func(o *options) {
		o.start = start
	}
}

// WithHalt adds halt states to the inferred state set.
func WithHalt(halt ...domain.State) Option {
	return func(o *options) {
		o.halt = append(o.halt, halt...)
	}
}

// WithEmptySymbol adds the blank symbol to the inferred alphabet.
func WithEmptySymbol(empty domain.Symbol) Option {
	return func(o *options) {
		o.empty = empty
	}
}

// WithTape adds the initial tape contents to the inferred alphabet.
func WithTape(cells ...domain.Symbol) Option {
	return func(o *options) {
		o.tape = append(o.tape, cells...)
	}
}

func configOptions(cfg domain.Config) []Option {
	return []Option{
		WithStates(cfg.States...),
		WithSymbols(cfg.Symbols...),
		WithStart(cfg.Start),
		WithHalt(cfg.Halt...),
		WithEmptySymbol(cfg.EmptySymbol),
		WithTape(cfg.Tape...),
	}
}
