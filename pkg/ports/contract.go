package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSession(id string, steps int) *domain.Session {
	return &domain.Session{
		ID: id,
		Config: domain.Config{
			Start:       "q0",
			EmptySymbol: "_",
			Halt:        []domain.State{"qh"},
			Tape:        []domain.Symbol{"1", "1"},
			Rules: []domain.Rule{
				{FromState: "q0", FromSymbol: "1", ToSymbol: "1", Action: domain.Right, ToState: "q0"},
				{FromState: "q0", FromSymbol: "_", ToSymbol: "1", Action: domain.Stay, ToState: "qh"},
			},
		},
		Strict:    true,
		Steps:     steps,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := contractSession(sessionID, 12)

		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, session.Config, loaded.Config)
		assert.Equal(t, session.Strict, loaded.Strict)
		assert.Equal(t, 12, loaded.Steps)
		assert.True(t, session.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSession(sessionID, 20)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 20, loaded.Steps)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractSession(sessionID, 0))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractSession(id1, 0)))
		require.NoError(t, store.Save(ctx, id2, contractSession(id2, 0)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
		assert.NotContains(t, sessions, sessionID)
	})
}
