// Package metrics exposes engine activity as Prometheus collectors.
//
// Collectors are bound to an engine through lifecycle hooks:
//
//	m, _ := metrics.New(prometheus.DefaultRegisterer)
//	engine, _ := runtime.NewEngine(table, cfg, runtime.WithLifecycleHooks(m.Hooks()))
package metrics

import (
	"errors"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every engine of a process.
type Metrics struct {
	Phases *prometheus.CounterVec
	Steps  prometheus.Counter
	Halts  prometheus.Counter
	Errors *prometheus.CounterVec

	// StepsToHalt records the macro-step count of machines when they halt.
	StepsToHalt prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_phase_transitions_total",
				Help: "Total number of micro-steps, by phase entered",
			},
			[]string{"phase"},
		),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of completed macro-steps",
		}),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_halts_total",
			Help: "Total number of machines that reached a halt state",
		}),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_step_errors_total",
				Help: "Total number of failed advances, by cause",
			},
			[]string{"cause"},
		),
		StepsToHalt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_steps_to_halt",
			Help:    "Macro-steps taken by machines that halted",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Phases, m.Steps, m.Halts, m.Errors, m.StepsToHalt} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhase: func(e *domain.PhaseEvent) {
			m.Phases.WithLabelValues(e.To.String()).Inc()
		},
		OnStep: func(*domain.StepEvent) {
			m.Steps.Inc()
		},
		OnHalt: func(e *domain.StepEvent) {
			m.Halts.Inc()
			m.StepsToHalt.Observe(float64(e.OpCounter - 1))
		},
		OnError: func(e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(Cause(e.Err)).Inc()
		},
	}
}

// Cause maps an engine error to a low-cardinality label value.
func Cause(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingRule):
		return "missing_rule"
	case errors.Is(err, domain.ErrMissingState):
		return "missing_state"
	case errors.Is(err, domain.ErrInvalidSymbol):
		return "invalid_symbol"
	default:
		return "other"
	}
}
