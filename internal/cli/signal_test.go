package cli

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSignals(t *testing.T) {
	t.Run("signal cancels and is recorded", func(t *testing.T) {
		ctx, stop := WithSignals(context.Background())
		defer stop()

		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("context was not cancelled by SIGTERM")
		}
		assert.Equal(t, syscall.SIGTERM, Interrupted(ctx))
		assert.EqualError(t, context.Cause(ctx), "interrupted by terminated")
	})

	t.Run("stop is not an interrupt", func(t *testing.T) {
		ctx, stop := WithSignals(context.Background())
		stop()

		<-ctx.Done()
		assert.Nil(t, Interrupted(ctx))
		assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
	})

	t.Run("parent deadline is not an interrupt", func(t *testing.T) {
		parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		ctx, stop := WithSignals(parent)
		defer stop()

		<-ctx.Done()
		assert.Nil(t, Interrupted(ctx))
	})
}
