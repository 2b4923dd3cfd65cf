package domain

import "slices"

// Config describes a machine to load. It is format agnostic; see package loader
// for the YAML/JSON representation.
type Config struct {
	Start       State    `json:"start" yaml:"start" mapstructure:"start"`
	EmptySymbol Symbol   `json:"empty_symbol" yaml:"empty_symbol" mapstructure:"empty_symbol"`
	Halt        []State  `json:"halt,omitempty" yaml:"halt,omitempty" mapstructure:"halt"`
	Tape        []Symbol `json:"tape,omitempty" yaml:"tape,omitempty" mapstructure:"tape"`
	Head        int      `json:"head,omitempty" yaml:"head,omitempty" mapstructure:"head"`
	Rules       []Rule   `json:"rules" yaml:"rules" mapstructure:"rules"`

	// Explicit declarations (legacy strict configurations). When empty the
	// sets are inferred from the rules.
	States  []State  `json:"states,omitempty" yaml:"states,omitempty" mapstructure:"states"`
	Symbols []Symbol `json:"symbols,omitempty" yaml:"symbols,omitempty" mapstructure:"symbols"`
}

// InitialTape returns the configured tape, defaulting to a single empty cell.
func (c Config) InitialTape() ([]Symbol, int) {
	if len(c.Tape) == 0 {
		return []Symbol{c.EmptySymbol}, 0
	}
	cells := make([]Symbol, len(c.Tape))
	copy(cells, c.Tape)
	return cells, c.Head
}

// IsHalt reports whether s is one of the configured halt states.
func (c Config) IsHalt(s State) bool {
	for _, h := range c.Halt {
		if h == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Halt = slices.Clone(c.Halt)
	out.Tape = slices.Clone(c.Tape)
	out.Rules = slices.Clone(c.Rules)
	out.States = slices.Clone(c.States)
	out.Symbols = slices.Clone(c.Symbols)
	return out
}
