package tests

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MachineLibraryContractTest is a reusable test suite that verifies if an adapter complies with ports.MachineLibrary.
// want maps every machine name in the library to its expected configuration.
func MachineLibraryContractTest(t *testing.T, lib ports.MachineLibrary, want map[string]domain.Config) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, cfg := range want {
			m, err := lib.Get(ctx, name)
			require.NoError(t, err, "getting machine %s", name)
			assert.Equal(t, name, m.Name)
			assert.Equal(t, cfg, m.Config)
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := lib.Get(ctx, "non-existent-machine")
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := lib.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(want))
		for name := range want {
			assert.Contains(t, names, name)
		}
	})
}
