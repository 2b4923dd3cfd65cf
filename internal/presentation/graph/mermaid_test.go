package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		model       graph.Model
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Node Shapes",
			model: graph.Model{
				Rules: []domain.Rule{{FromState: "q0", FromSymbol: "1", ToSymbol: "1", Action: "R", ToState: "qh"}},
				Halts: []domain.State{"qh"},
				Start: "q0",
			},
			contains: []string{
				`s_q0(("q0"))`,
				`s_qh((("qh")))`,
				`__start__(("start"))`,
				"__start__ --> s_q0",
			},
		},
		{
			name: "ID Sanitization",
			model: graph.Model{
				States: []domain.State{"go-left", "a.b"},
			},
			contains: []string{
				`s_go_2d_left(("go-left"))`,
				`s_a_2e_b(("a.b"))`,
			},
		},
		{
			name: "Edge Labels",
			model: graph.Model{
				Rules: []domain.Rule{
					{FromState: "a", FromSymbol: "0", ToSymbol: "1", Action: "L", ToState: "b"},
					{FromState: "b", FromSymbol: "\"", ToSymbol: "\"", Action: "N", ToState: "a"},
				},
			},
			contains: []string{
				`s_a -- "0 → 1, L" --> s_b`,
				`s_b -- "#quot;, N" --> s_a`,
			},
		},
		{
			name: "Overlay",
			model: graph.Model{
				Rules: []domain.Rule{{FromState: "a", FromSymbol: "0", ToSymbol: "1", Action: "L", ToState: "b"}},
			},
			overlay: &graph.Overlay{Current: "b", Phase: domain.PhaseMoveState},
			contains: []string{
				"classDef current fill:yellow",
				"class s_b current;",
			},
		},
		{
			name: "No Overlay",
			model: graph.Model{
				States: []domain.State{"a"},
			},
			notContains: []string{"classDef", "__start__"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.model, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph LR\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
