package graph

import (
	"fmt"
	"strings"
)

// GenerateMermaid produces a Mermaid flowchart for the model.
// It applies semantic styling:
// - Start pseudo-node: ((Circle))
// - Halt state: (((Double circle)))
// - Default: ((Circle))
// The overlay colors the current state by phase if provided.
func GenerateMermaid(m Model, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range m.nodes() {
		opener, closer := "((", "))"
		if m.isHalt(s) {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, escapeMermaid(string(s)), closer)
	}

	if m.Start != "" {
		fmt.Fprintf(&sb, "    %s((\"start\"))\n", StartNode)
		fmt.Fprintf(&sb, "    %s --> %s\n", StartNode, sanitizeMermaidID(string(m.Start)))
	}

	for _, r := range m.drawable() {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(r.FromState)),
			escapeMermaid(EdgeLabel(r)),
			sanitizeMermaidID(string(r.ToState)))
	}

	if overlay != nil && overlay.Current != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light fills, regardless of theme.
		fmt.Fprintf(&sb, "    classDef current fill:%s,stroke:#333,stroke-width:3px,color:#000;\n", PhaseColor(overlay.Phase))
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("s_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x_", r)
		}
	}
	return sb.String()
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
