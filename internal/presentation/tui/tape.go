package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// cellColors highlights the cell under the head while it is being read or written.
var cellColors = map[domain.Phase]string{
	domain.PhaseReadSymbol:  "#22c55e",
	domain.PhaseClearSymbol: "#f97316",
	domain.PhaseWriteSymbol: "#3b82f6",
}

// RenderTape draws the tape strip framed by one blank cell on each side,
// with the head marker on the line below.
func RenderTape(v domain.View, empty domain.Symbol, p termenv.Profile) string {
	cells := make([]string, 0, len(v.Tape)+2)
	cells = append(cells, cell(empty))
	for i, c := range v.Tape {
		s := cell(c)
		if i == v.Head {
			if color, ok := cellColors[v.Phase]; ok {
				s = p.String(s).Foreground(p.Color("#000000")).Background(p.Color(color)).String()
			} else {
				s = p.String(s).Bold().String()
			}
		}
		cells = append(cells, s)
	}
	cells = append(cells, cell(empty))

	marker := strings.Repeat(" ", 4*(v.Head+1)+2) + string(v.HeadOp)
	return strings.Join(cells, "") + "|\n" + marker
}

func cell(s domain.Symbol) string {
	return fmt.Sprintf("| %s ", s)
}

// RenderStatus renders the operation counter and the phase description.
func RenderStatus(v domain.View, p termenv.Profile) string {
	desc := p.String(v.Description).Bold()
	if v.Halted {
		desc = desc.Foreground(p.Color("#ef4444"))
	}
	return fmt.Sprintf("%4d  %s  %s", v.OpCounter, desc, v.State)
}
