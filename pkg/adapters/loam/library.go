package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/adapters/fs"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/loader"
)

// Library adapts a Loam repository to ports.WritableLibrary.
//
// Every document is one machine. Markdown documents carry the configuration in
// their frontmatter and the description in their body; JSON and YAML documents
// are the configuration itself, with an optional "description" key. An
// optional "name" key overrides the file name.
type Library struct {
	Repo core.Repository
}

// New creates a new Loam adapter.
func New(repo core.Repository) *Library {
	return &Library{Repo: repo}
}

// Open initializes a Loam repository at dir. Read-only libraries never
// write to dir; writable ones save straight to it, without versioning.
func Open(dir string, readOnly bool) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	opts := []loam.Option{
		loam.WithStrict(true),
		loam.WithSerializer(".json", fs.NewJSONSerializer(true)),
	}
	if readOnly {
		opts = append(opts, loam.WithReadOnly(true))
	} else {
		opts = append(opts, loam.WithVersioning(false), loam.WithForceTemp(false))
	}

	repo, err := loam.Init(absPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

// entry is a listed document with its normalized name.
type entry struct {
	name string
	doc  core.Document
}

func (l *Library) entries(ctx context.Context) ([]entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	out := make([]entry, 0, len(docs))
	for _, doc := range docs {
		name := nameOf(doc)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		out = append(out, entry{name: name, doc: doc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// List returns the names of all machines in the repository.
func (l *Library) List(ctx context.Context) ([]string, error) {
	entries, err := l.entries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

// Get loads and decodes a machine by name.
func (l *Library) Get(ctx context.Context, name string) (*domain.Machine, error) {
	entries, err := l.entries(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.name != name {
			continue
		}
		// Listed documents carry metadata only; the body needs a direct read.
		doc, err := l.Repo.Get(ctx, e.doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", e.doc.ID, err)
		}
		cfg, err := loader.Decode(doc.Metadata)
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", name, err)
		}
		return &domain.Machine{
			Name:        name,
			Description: description(doc),
			Config:      cfg,
		}, nil
	}
	return nil, fmt.Errorf("machine %q: %w", name, domain.ErrMachineNotFound)
}

// Save writes m as a Markdown document with the configuration as frontmatter.
func (l *Library) Save(ctx context.Context, m *domain.Machine) error {
	if m.Name == "" {
		return fmt.Errorf("machine missing name")
	}
	doc := core.Document{
		ID:       m.Name + ".md",
		Content:  m.Description,
		Metadata: core.Metadata(loader.ToMap(m.Config)),
	}
	if err := l.Repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("loam save failed for %s: %w", m.Name, err)
	}
	return nil
}

func nameOf(doc core.Document) string {
	if n, ok := doc.Metadata["name"].(string); ok && n != "" {
		return trimExtension(n)
	}
	return trimExtension(doc.ID)
}

func description(doc core.Document) string {
	if s := strings.TrimSpace(doc.Content); s != "" {
		return s
	}
	if d, ok := doc.Metadata["description"].(string); ok {
		return d
	}
	return ""
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
