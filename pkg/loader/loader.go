// Package loader reads and writes machine configurations.
//
// Files ending in .json are parsed with encoding/json and everything else as
// YAML. Both are first read into a loose map and then decoded into a
// domain.Config, so the same shorthands are accepted everywhere: comma
// separated halt lists, tapes written as strings, and rules written either as
// five element lists, maps, or "q0,1,1,R,q0" strings.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a machine file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

var requiredKeys = []string{"start", "empty_symbol", "rules"}

// Load reads a machine configuration file.
func Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to read machine file: %w", err)
	}
	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a machine configuration from raw bytes.
func Parse(data []byte, format Format) (domain.Config, error) {
	raw := make(map[string]any)
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return domain.Config{}, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Config{}, fmt.Errorf("failed to parse yaml: %w", err)
		}
		if len(doc.Content) > 0 {
			literalScalars(&doc)
			if err := doc.Decode(&raw); err != nil {
				return domain.Config{}, fmt.Errorf("failed to parse yaml: %w", err)
			}
		}
	}
	return Decode(raw)
}

// literalScalars retags plain numbers and booleans as strings so they keep
// their source text: tape 0110 stays "0110" instead of octal 72. Only head is
// left numeric.
func literalScalars(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			literalScalars(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "head" {
				continue
			}
			literalScalars(n.Content[i+1])
		}
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float", "!!bool":
			n.Tag = "!!str"
		}
	}
}

// document is the on-disk shape written by Save. Rules are stored as tuples.
type document struct {
	Start       domain.State    `json:"start" yaml:"start"`
	EmptySymbol domain.Symbol   `json:"empty_symbol" yaml:"empty_symbol"`
	Halt        []domain.State  `json:"halt,omitempty" yaml:"halt,omitempty,flow"`
	Tape        []domain.Symbol `json:"tape,omitempty" yaml:"tape,omitempty,flow"`
	Head        int             `json:"head" yaml:"head"`
	States      []domain.State  `json:"states,omitempty" yaml:"states,omitempty,flow"`
	Symbols     []domain.Symbol `json:"symbols,omitempty" yaml:"symbols,omitempty,flow"`
	Rules       []rowTuple      `json:"rules" yaml:"rules"`
}

type rowTuple [5]string

// MarshalYAML keeps each rule on one line.
func (r rowTuple) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range r {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f})
	}
	return n, nil
}

// Marshal encodes cfg in the given format. JSON uses a four space indent.
func Marshal(cfg domain.Config, format Format) ([]byte, error) {
	doc := document{
		Start:       cfg.Start,
		EmptySymbol: cfg.EmptySymbol,
		Halt:        cfg.Halt,
		Tape:        cfg.Tape,
		Head:        cfg.Head,
		States:      cfg.States,
		Symbols:     cfg.Symbols,
		Rules:       make([]rowTuple, len(cfg.Rules)),
	}
	for i, r := range cfg.Rules {
		doc.Rules[i] = r.Tuple()
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, choosing the format from the extension.
func Save(path string, cfg domain.Config) error {
	data, err := Marshal(cfg, FormatOf(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write machine file: %w", err)
	}
	return nil
}

// ToMap converts cfg into the loose map form accepted by Decode, e.g. to
// store it as document frontmatter.
func ToMap(cfg domain.Config) map[string]any {
	m := map[string]any{
		"start":        string(cfg.Start),
		"empty_symbol": string(cfg.EmptySymbol),
		"head":         cfg.Head,
	}
	if len(cfg.Halt) > 0 {
		m["halt"] = toAnySlice(cfg.Halt)
	}
	if len(cfg.Tape) > 0 {
		m["tape"] = toAnySlice(cfg.Tape)
	}
	if len(cfg.States) > 0 {
		m["states"] = toAnySlice(cfg.States)
	}
	if len(cfg.Symbols) > 0 {
		m["symbols"] = toAnySlice(cfg.Symbols)
	}
	rules := make([]any, len(cfg.Rules))
	for i, r := range cfg.Rules {
		t := r.Tuple()
		rules[i] = []any{t[0], t[1], t[2], t[3], t[4]}
	}
	m["rules"] = rules
	return m
}

func toAnySlice[T ~string](items []T) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}
