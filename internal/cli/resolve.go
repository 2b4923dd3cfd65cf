package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/loader"
)

// Resolve loads a machine from a YAML or JSON file, or, when source is not a
// file, by name from the library in dir.
func Resolve(ctx context.Context, source, dir string) (domain.Config, error) {
	if source == "" {
		return domain.Config{}, fmt.Errorf("a machine file or library name is required")
	}
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return loader.Load(source)
	}

	lib, err := loam.Open(dir, true)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to open library %s: %w", dir, err)
	}
	m, err := lib.Get(ctx, source)
	if err != nil {
		return domain.Config{}, err
	}
	return m.Config, nil
}
