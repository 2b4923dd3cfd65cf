package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventPhase EventType = "phase"
	EventStep  EventType = "step"
	EventHalt  EventType = "halt"
	EventError EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PhaseEvent is emitted after every successful micro-step.
type PhaseEvent struct {
	EventBase
	From      Phase `json:"from"`
	To        Phase `json:"to"`
	State     State `json:"state"`
	OpCounter int   `json:"op_counter"`
}

// StepEvent is emitted when a macro-step completes (MoveState back to Normal).
type StepEvent struct {
	EventBase
	State     State `json:"state"`
	OpCounter int   `json:"op_counter"`
}

// ErrorEvent is emitted when Advance fails.
type ErrorEvent struct {
	EventBase
	Phase Phase `json:"phase"`
	State State `json:"state"`
	Err   error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside Advance and must not call back into the engine.
type LifecycleHooks struct {
	OnPhase func(*PhaseEvent)
	OnStep  func(*StepEvent)
	OnHalt  func(*StepEvent)
	OnError func(*ErrorEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPhase: chain(h.OnPhase, other.OnPhase),
		OnStep:  chain(h.OnStep, other.OnStep),
		OnHalt:  chain(h.OnHalt, other.OnHalt),
		OnError: chain(h.OnError, other.OnError),
	}
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
