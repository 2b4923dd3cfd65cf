package domain

import (
	"errors"
	"fmt"
)

// Construction errors, raised while compiling a configuration in strict mode.
var (
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidHeadAction = errors.New("invalid head action")
	ErrEmptyField        = errors.New("empty field")
	ErrDuplicateRule     = errors.New("duplicate rule")
	ErrInvalidHeadIndex  = errors.New("invalid initial head index")
)

// Step errors, raised by Advance when the program is incomplete.
var (
	ErrMissingState = errors.New("no rules for state")
	ErrMissingRule  = errors.New("no rule for state and symbol")
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMachineNotFound is returned when a library has no machine with the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// ErrMissingKey is returned when a configuration lacks a required key.
var ErrMissingKey = errors.New("required key missing")

// ConstructionError identifies the rule (or configuration field) that failed validation.
type ConstructionError struct {
	Index int    // Position of the rule in the input list, -1 for configuration fields
	Rule  *Rule  // Offending rule, nil for configuration fields
	Field string // Field name, e.g. "from_state" or "empty_symbol"
	Value string // The rejected value
	Err   error  // One of the construction sentinels
}

func (e *ConstructionError) Error() string {
	if e.Rule == nil {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("rule %d (%s): %s %q: %v", e.Index+1, e.Rule, e.Field, e.Value, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// StepError is returned by Advance when the current state or symbol has no matching rule.
// The engine is left untouched; the driver should treat it as halted with an error.
type StepError struct {
	Phase  Phase  // Phase the engine was in when the lookup failed
	State  State  // Current state
	Symbol Symbol // Symbol under the head (empty for ErrMissingState)
	Err    error
}

func (e *StepError) Error() string {
	if errors.Is(e.Err, ErrMissingState) {
		return fmt.Sprintf("%v: state '%s'", e.Err, e.State)
	}
	return fmt.Sprintf("no action in state '%s' for read symbol '%s'", e.State, e.Symbol)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
