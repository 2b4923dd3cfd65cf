// Package validator finds structural problems in a machine that strict
// validation accepts but that still make a run misbehave.
package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Warning describes a single finding about a state.
type Warning struct {
	State   domain.State
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("state '%s': %s", w.State, w.Message)
}

// Report groups the findings of Analyze. All slices are sorted.
type Report struct {
	// Unreachable states own rules but cannot be entered from the start state.
	Unreachable []domain.State
	// DeadEnds are reachable non-halt states without any rule. A run entering
	// one fails with domain.ErrMissingState.
	DeadEnds []domain.State
	// UnusedHalts are halt states that no reachable rule leads to.
	UnusedHalts []domain.State
}

// Empty reports whether the analysis found nothing.
func (r Report) Empty() bool {
	return len(r.Unreachable) == 0 && len(r.DeadEnds) == 0 && len(r.UnusedHalts) == 0
}

// Warnings flattens the report into printable findings.
func (r Report) Warnings() []Warning {
	var out []Warning
	for _, s := range r.Unreachable {
		out = append(out, Warning{State: s, Message: "unreachable from the start state"})
	}
	for _, s := range r.DeadEnds {
		out = append(out, Warning{State: s, Message: "reachable but has no rules"})
	}
	for _, s := range r.UnusedHalts {
		out = append(out, Warning{State: s, Message: "halt state is never reached"})
	}
	return out
}

// Analyze crawls the state graph of cfg from its start state. Rules with an
// empty from or to state are ignored.
func Analyze(cfg domain.Config) Report {
	edges := make(map[domain.State][]domain.State)
	for _, r := range cfg.Rules {
		if r.FromState == "" || r.ToState == "" {
			continue
		}
		edges[r.FromState] = append(edges[r.FromState], r.ToState)
	}

	visited := make(map[domain.State]bool)
	queue := []domain.State{cfg.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		if cfg.IsHalt(current) {
			continue
		}
		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	var rep Report
	for s := range edges {
		if !visited[s] {
			rep.Unreachable = append(rep.Unreachable, s)
		}
	}
	for s := range visited {
		if _, ok := edges[s]; !ok && !cfg.IsHalt(s) {
			rep.DeadEnds = append(rep.DeadEnds, s)
		}
	}
	for _, h := range cfg.Halt {
		if !visited[h] && !slices.Contains(rep.UnusedHalts, h) {
			rep.UnusedHalts = append(rep.UnusedHalts, h)
		}
	}

	slices.Sort(rep.Unreachable)
	slices.Sort(rep.DeadEnds)
	slices.Sort(rep.UnusedHalts)
	return rep
}
