package graph

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by Render for formats other than dot and mermaid.
var ErrUnknownFormat = errors.New("unknown graph format")

// Formats lists the accepted Render formats.
var Formats = []string{"dot", "mermaid"}

// Render dispatches to GenerateDOT or GenerateMermaid. An empty format means dot.
func Render(format string, m Model, overlay *Overlay) (string, error) {
	switch format {
	case "", "dot":
		return GenerateDOT(m, overlay), nil
	case "mermaid":
		return GenerateMermaid(m, overlay), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
