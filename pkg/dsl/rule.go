package dsl

import "github.com/aretw0/turing/pkg/domain"

// RuleBuilder provides a fluent API for configuring a single rule.
type RuleBuilder struct {
	rule    domain.Rule
	builder *Builder
}

// Write sets the symbol written over the matched cell.
func (r *RuleBuilder) Write(symbol string) *RuleBuilder {
	r.rule.ToSymbol = domain.Symbol(symbol)
	return r
}

// Left moves the head one cell left after writing.
func (r *RuleBuilder) Left() *RuleBuilder {
	r.rule.Action = domain.Left
	return r
}

// Right moves the head one cell right after writing.
func (r *RuleBuilder) Right() *RuleBuilder {
	r.rule.Action = domain.Right
	return r
}

// Stay keeps the head in place.
func (r *RuleBuilder) Stay() *RuleBuilder {
	r.rule.Action = domain.Stay
	return r
}

// Move sets the head action from its token ("L", "R" or "N").
func (r *RuleBuilder) Move(action string) *RuleBuilder {
	r.rule.Action = domain.HeadAction(action)
	return r
}

// Go sets the next state and returns the machine builder so rules can be
// chained.
func (r *RuleBuilder) Go(state string) *Builder {
	r.rule.ToState = domain.State(state)
	return r.builder
}

// Build returns the underlying domain.Rule.
func (r *RuleBuilder) Build() domain.Rule {
	return r.rule
}
