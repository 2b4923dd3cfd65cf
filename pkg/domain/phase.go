package domain

import "fmt"

// Phase is one observable sub-operation of a transition.
type Phase int

const (
	PhaseNormal Phase = iota
	PhaseReadState
	PhaseReadSymbol
	PhaseClearSymbol
	PhaseWriteSymbol
	PhaseMoveHead
	PhaseMovedHead
	PhaseMoveState
	PhaseHalted
)

var phaseNames = [...]string{
	PhaseNormal:      "normal",
	PhaseReadState:   "read_state",
	PhaseReadSymbol:  "read_symbol",
	PhaseClearSymbol: "clear_symbol",
	PhaseWriteSymbol: "write_symbol",
	PhaseMoveHead:    "move_head",
	PhaseMovedHead:   "moved_head",
	PhaseMoveState:   "move_state",
	PhaseHalted:      "halted",
}

var phaseDescriptions = [...]string{
	PhaseNormal:      "At state",
	PhaseReadState:   "Read current state",
	PhaseReadSymbol:  "Read current symbol",
	PhaseClearSymbol: "Cleared symbol",
	PhaseWriteSymbol: "Wrote symbol",
	PhaseMoveHead:    "Moving head",
	PhaseMovedHead:   "Head moved",
	PhaseMoveState:   "Going to next state",
	PhaseHalted:      "Halted",
}

func (p Phase) valid() bool {
	return p >= PhaseNormal && p <= PhaseHalted
}

func (p Phase) String() string {
	if !p.valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Description is the human readable operation label shown next to the counter.
func (p Phase) Description() string {
	if !p.valid() {
		return ""
	}
	return phaseDescriptions[p]
}

// Next returns the successor of p in the macro-step cycle.
// It does not know about halting; Normal always leads to ReadState here.
func (p Phase) Next() Phase {
	switch p {
	case PhaseMoveState:
		return PhaseNormal
	case PhaseHalted:
		return PhaseHalted
	default:
		return p + 1
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	ph, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = ph
	return nil
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return PhaseNormal, fmt.Errorf("unknown phase %q", s)
}
