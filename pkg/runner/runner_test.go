package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendOne(t *testing.T) *runtime.Engine {
	t.Helper()
	e, err := runtime.Load(domain.Config{
		Start:       "q0",
		EmptySymbol: "_",
		Halt:        []domain.State{"qh"},
		Tape:        []domain.Symbol{"1", "1"},
		Rules: []domain.Rule{
			{FromState: "q0", FromSymbol: "1", ToSymbol: "1", Action: domain.Right, ToState: "q0"},
			{FromState: "q0", FromSymbol: "_", ToSymbol: "1", Action: domain.Stay, ToState: "qh"},
		},
	}, true)
	require.NoError(t, err)
	return e
}

func forever(t *testing.T) *runtime.Engine {
	t.Helper()
	e, err := runtime.Load(domain.Config{
		Start:       "a",
		EmptySymbol: "_",
		Rules: []domain.Rule{
			{FromState: "a", FromSymbol: "_", ToSymbol: "_", Action: domain.Right, ToState: "a"},
		},
	}, true)
	require.NoError(t, err)
	return e
}

func TestRunner_UntilHalt(t *testing.T) {
	var frames []runner.Frame
	r := runner.NewRunner(runner.WithFrameHandler(func(f runner.Frame) error {
		frames = append(frames, f)
		return nil
	}))

	res, err := r.Run(context.Background(), appendOne(t))
	require.NoError(t, err)
	assert.Equal(t, runner.StopHalted, res.Reason)
	assert.Equal(t, 25, res.Transitions)
	assert.True(t, res.View.Halted)

	require.Len(t, frames, 26)
	assert.Nil(t, frames[0].Diff)
	assert.Equal(t, 0, frames[0].Transitions)
	for _, f := range frames[1:] {
		assert.NotNil(t, f.Diff, "every micro-step changes the view")
	}
	assert.Equal(t, domain.PhaseHalted, frames[25].View.Phase)
}

func TestRunner_MacroFrames(t *testing.T) {
	var phases []domain.Phase
	r := runner.NewRunner(
		runner.WithMacroFrames(true),
		runner.WithFrameHandler(func(f runner.Frame) error {
			phases = append(phases, f.View.Phase)
			return nil
		}),
	)

	_, err := r.Run(context.Background(), appendOne(t))
	require.NoError(t, err)
	assert.Equal(t, []domain.Phase{
		domain.PhaseNormal, domain.PhaseNormal, domain.PhaseNormal, domain.PhaseNormal, domain.PhaseHalted,
	}, phases)
}

func TestRunner_MaxSteps(t *testing.T) {
	res, err := runner.NewRunner(runner.WithMaxSteps(80)).Run(context.Background(), forever(t))
	require.NoError(t, err)
	assert.Equal(t, runner.StopLimit, res.Reason)
	assert.Equal(t, 80, res.Transitions)
	assert.Equal(t, 11, res.View.OpCounter)
}

func TestRunner_Cancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := runner.NewRunner(runner.WithInterval(5 * time.Millisecond))
	res, err := r.Run(ctx, forever(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, runner.StopCancelled, res.Reason)
	assert.Greater(t, res.Transitions, 0)
	assert.Less(t, res.Transitions, 20)
}

func TestRunner_StepError(t *testing.T) {
	e, err := runtime.Load(domain.Config{
		Start:       "a",
		EmptySymbol: "_",
		Tape:        []domain.Symbol{"1"},
		Rules:       []domain.Rule{{FromState: "a", FromSymbol: "_", ToSymbol: "1", Action: domain.Stay, ToState: "a"}},
	}, true)
	require.NoError(t, err)

	res, err := runner.NewRunner().Run(context.Background(), e)
	require.ErrorIs(t, err, domain.ErrMissingRule)
	assert.Equal(t, runner.StopError, res.Reason)
	assert.Equal(t, 2, res.Transitions)
	assert.Equal(t, domain.PhaseReadSymbol, res.View.Phase)
}

func TestRunner_FrameHandlerAbort(t *testing.T) {
	stop := errors.New("enough")
	calls := 0
	r := runner.NewRunner(runner.WithFrameHandler(func(runner.Frame) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	}))

	res, err := r.Run(context.Background(), forever(t))
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, res.Transitions)
}
