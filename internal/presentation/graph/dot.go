package graph

import (
	"fmt"
	"strings"
)

// GenerateDOT produces a Graphviz digraph for the model.
// Halt states are drawn as double circles and the overlay colors the current
// state by phase.
func GenerateDOT(m Model, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")

	for _, s := range m.nodes() {
		shape := "circle"
		if m.isHalt(s) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "  %s [shape=%s];\n", dotID(string(s)), shape)
	}

	if m.Start != "" {
		fmt.Fprintf(&sb, "  %s [shape=none, label=\"start\"];\n", dotID(StartNode))
		fmt.Fprintf(&sb, "  %s -> %s;\n", dotID(StartNode), dotID(string(m.Start)))
	}

	if overlay != nil && overlay.Current != "" {
		fmt.Fprintf(&sb, "  %s [fillcolor=%s, style=filled];\n", dotID(string(overlay.Current)), PhaseColor(overlay.Phase))
	}

	for _, r := range m.drawable() {
		fmt.Fprintf(&sb, "  %s -> %s [label=%s];\n", dotID(string(r.FromState)), dotID(string(r.ToState)), dotID(EdgeLabel(r)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// dotID quotes an identifier or label for Graphviz.
func dotID(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
