package tui

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Highlight names the classes applied to one row of the rules table.
// Empty strings mean no highlight.
type Highlight struct {
	Row        string
	FromSymbol string
	ToSymbol   string
}

// RowClass returns the highlight of a rule for the engine view.
// Only rules leaving the current state are highlighted, and once a symbol
// has been read only the matching rule keeps its highlight.
func RowClass(r domain.Rule, v domain.View) Highlight {
	var h Highlight
	if r.FromState != v.State {
		return h
	}
	if v.ReadSymbol == nil {
		h.Row = "current"
		return h
	}
	if *v.ReadSymbol != r.FromSymbol {
		return h
	}

	switch v.Phase {
	case domain.PhaseReadSymbol:
		h.FromSymbol = "read_state"
	case domain.PhaseClearSymbol, domain.PhaseWriteSymbol, domain.PhaseMoveHead, domain.PhaseMovedHead:
		h.FromSymbol = "clear_symbol"
	}

	switch v.Phase {
	case domain.PhaseWriteSymbol, domain.PhaseMoveHead, domain.PhaseMovedHead:
		h.ToSymbol = "write_symbol"
	}

	switch v.Phase {
	case domain.PhaseMoveHead, domain.PhaseMovedHead, domain.PhaseMoveState, domain.PhaseNormal:
		h.Row = v.Phase.String()
	default:
		h.Row = "current"
	}
	return h
}

// HaltRowClass returns the class of the trailing halt row.
func HaltRowClass(v domain.View, halts []domain.State) string {
	for _, s := range halts {
		if s != v.State {
			continue
		}
		if v.Halted {
			return "halted"
		}
		return "normal"
	}
	return ""
}

// RulesMarkdown renders the rules as a Markdown table. Highlighted rows are
// prefixed with an arrow and highlighted symbol cells are emphasized.
func RulesMarkdown(rules []domain.Rule, halts []domain.State, v *domain.View) string {
	var sb strings.Builder
	sb.WriteString("| | Current state | Scanned symbol | Print symbol | Move tape | Next state |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")

	for _, r := range rules {
		var h Highlight
		if v != nil {
			h = RowClass(r, *v)
		}
		marker := ""
		if h.Row != "" {
			marker = "▶"
		}
		cols := []string{
			marker,
			mdCell(string(r.FromState), ""),
			mdCell(string(r.FromSymbol), h.FromSymbol),
			mdCell(string(r.ToSymbol), h.ToSymbol),
			mdCell(string(r.Action), ""),
			mdCell(string(r.ToState), ""),
		}
		sb.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	}

	for _, s := range halts {
		marker := ""
		if v != nil && s == v.State {
			marker = "■"
		}
		sb.WriteString("| " + marker + " | " + mdCell(string(s), "") + " | | | | halt |\n")
	}
	return sb.String()
}

// RenderRules renders the rules table for the terminal.
func RenderRules(rules []domain.Rule, halts []domain.State, v *domain.View) (string, error) {
	return NewRenderer()(RulesMarkdown(rules, halts, v))
}

func mdCell(s, class string) string {
	if s == "" {
		return "`?`"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "`", "\\`")
	if class != "" {
		return "**" + s + "**"
	}
	return s
}
