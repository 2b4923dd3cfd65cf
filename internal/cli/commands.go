package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/domain"
)

// ErrInvalidMachine is returned by Validate when strict validation fails.
var ErrInvalidMachine = errors.New("machine is invalid")

// Validate reports every strict-mode violation of a machine.
func Validate(ctx context.Context, w io.Writer, source, dir string) error {
	cfg, err := Resolve(ctx, source, dir)
	if err != nil {
		return err
	}

	errs := compiler.Check(cfg)
	if len(errs) == 0 {
		fmt.Fprintf(w, "Machine is valid! %d rules, start %q.\n", len(cfg.Rules), cfg.Start)
		for _, warn := range validator.Analyze(cfg).Warnings() {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
		return nil
	}
	for _, e := range errs {
		fmt.Fprintf(w, "  - %v\n", e)
	}
	return fmt.Errorf("%w: %d errors", ErrInvalidMachine, len(errs))
}

// Graph writes the state graph of a machine. Permissive graphs are drawn even
// when strict validation fails.
func Graph(ctx context.Context, w io.Writer, source, dir, format string, permissive bool) error {
	cfg, err := Resolve(ctx, source, dir)
	if err != nil {
		return err
	}

	if permissive {
		p, err := turing.Preview(cfg, format)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, p.Graph)
		return err
	}

	m, err := turing.New(cfg)
	if err != nil {
		return err
	}
	out, err := m.Graph(format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Rules prints the rule table of a machine, rendered with glamour when w is a
// terminal and as raw Markdown otherwise.
func Rules(ctx context.Context, w io.Writer, source, dir string) error {
	cfg, err := Resolve(ctx, source, dir)
	if err != nil {
		return err
	}
	m, err := turing.New(cfg, turing.WithStrict(false))
	if err != nil {
		return err
	}

	if !isTerminal(w) {
		_, err = io.WriteString(w, tui.RulesMarkdown(m.Rules(), cfg.Halt, nil))
		return err
	}
	out, err := tui.RenderRules(m.Rules(), cfg.Halt, nil)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// ListLibrary prints the machines of the library in dir with their descriptions.
func ListLibrary(ctx context.Context, w io.Writer, dir string) error {
	lib, err := loam.Open(dir, true)
	if err != nil {
		return fmt.Errorf("failed to open library %s: %w", dir, err)
	}
	names, err := lib.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(w, "No machines found in %s.\n", dir)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRULES\tDESCRIPTION")
	for _, name := range names {
		m, err := lib.Get(ctx, name)
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\t%v\n", name, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(m.Config.Rules), firstLine(m.Description))
	}
	return tw.Flush()
}

// Save writes a machine file into the library in dir under name.
func Save(ctx context.Context, source, dir, name string) error {
	cfg, err := Resolve(ctx, source, dir)
	if err != nil {
		return err
	}
	if _, err := turing.New(cfg); err != nil {
		return err
	}
	lib, err := loam.Open(dir, false)
	if err != nil {
		return fmt.Errorf("failed to open library %s: %w", dir, err)
	}
	return lib.Save(ctx, &domain.Machine{Name: name, Config: cfg})
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
