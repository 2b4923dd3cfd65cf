package graph_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := graph.PreviewConfig(domain.Config{
			Start:       "q0",
			EmptySymbol: "_",
			Halt:        []domain.State{"qh"},
			Rules:       appendOneRules(),
		}, "dot")
		require.NoError(t, err)
		assert.True(t, p.Valid())
		assert.Contains(t, p.Graph, `"q0" -> "q0" [label="1, R"];`)
	})

	t.Run("invalid config is drawn permissively", func(t *testing.T) {
		rules := append(appendOneRules(), domain.Rule{
			FromState: "q0", FromSymbol: "1", ToSymbol: "_", Action: domain.Left, ToState: "qx",
		})
		p, err := graph.PreviewConfig(domain.Config{
			Start:       "q0",
			EmptySymbol: "_",
			Rules:       rules,
		}, "mermaid")
		require.NoError(t, err)
		require.Len(t, p.Errors, 1)
		assert.True(t, errors.Is(p.Errors[0], domain.ErrDuplicateRule))
		assert.Contains(t, p.Graph, "graph LR")
		assert.Contains(t, p.Graph, "s_qx")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := graph.PreviewConfig(domain.Config{Start: "a", EmptySymbol: "_"}, "svg")
		assert.ErrorIs(t, err, graph.ErrUnknownFormat)
	})
}
