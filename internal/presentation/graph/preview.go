package graph

import (
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Preview is the graph of a configuration that is still being edited.
type Preview struct {
	Graph  string
	Errors []error // strict-mode violations; the graph is then built permissively
}

// Valid reports whether the configuration passed strict validation.
func (p Preview) Valid() bool { return len(p.Errors) == 0 }

// PreviewConfig validates cfg strictly and renders its graph. An invalid
// configuration is still drawn from a permissive compile so that partial
// programs remain visible while they are written.
func PreviewConfig(cfg domain.Config, format string) (Preview, error) {
	p := Preview{Errors: compiler.Check(cfg)}

	table, err := compiler.Compile(cfg, len(p.Errors) == 0)
	if err != nil {
		return p, err
	}
	p.Graph, err = Render(format, FromTable(table, cfg.Halt, cfg.Start), nil)
	return p, err
}
