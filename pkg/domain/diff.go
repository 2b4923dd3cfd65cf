package domain

// ViewDiff represents the changes between two views of the same machine.
// It is designed to be serialized to JSON for partial updates on the client.
type ViewDiff struct {
	State     *State  `json:"state,omitempty"`
	Phase     *Phase  `json:"phase,omitempty"`
	OpCounter *int    `json:"op_counter,omitempty"`
	HeadOp    *HeadOp `json:"head_op,omitempty"`
	Head      *int    `json:"head,omitempty"`

	// Cells holds the changed cells keyed by their index in the new tape.
	Cells map[int]Symbol `json:"cells,omitempty"`

	// GrewLeft and GrewRight count cells materialized on each side.
	GrewLeft  int `json:"grew_left,omitempty"`
	GrewRight int `json:"grew_right,omitempty"`
}

// Empty reports whether the diff carries no change.
func (d *ViewDiff) Empty() bool {
	return d == nil || (d.State == nil &&
		d.Phase == nil &&
		d.OpCounter == nil &&
		d.HeadOp == nil &&
		d.Head == nil &&
		len(d.Cells) == 0 &&
		d.GrewLeft == 0 &&
		d.GrewRight == 0)
}

// Diff calculates the difference between oldView and newView.
// If oldView is nil, it returns a diff representing the entire newView (initial load).
// Returns nil when nothing changed.
func Diff(oldView, newView *View) *ViewDiff {
	if newView == nil {
		return nil
	}

	diff := &ViewDiff{}

	if oldView == nil {
		diff.State = &newView.State
		diff.Phase = &newView.Phase
		diff.OpCounter = &newView.OpCounter
		diff.HeadOp = &newView.HeadOp
		diff.Head = &newView.Head
		diff.Cells = make(map[int]Symbol, len(newView.Tape))
		for i, s := range newView.Tape {
			diff.Cells[i] = s
		}
		return diff
	}

	if oldView.State != newView.State {
		diff.State = &newView.State
	}
	if oldView.Phase != newView.Phase {
		diff.Phase = &newView.Phase
	}
	if oldView.OpCounter != newView.OpCounter {
		diff.OpCounter = &newView.OpCounter
	}
	if oldView.HeadOp != newView.HeadOp {
		diff.HeadOp = &newView.HeadOp
	}
	if oldView.Head != newView.Head {
		diff.Head = &newView.Head
	}

	// Align both tapes on the initial cell before comparing.
	shift := newView.Origin - oldView.Origin
	if shift > 0 {
		diff.GrewLeft = shift
	}
	if grown := len(newView.Tape) - len(oldView.Tape) - shift; grown > 0 {
		diff.GrewRight = grown
	}

	for i, s := range newView.Tape {
		j := i - shift
		if j < 0 || j >= len(oldView.Tape) || oldView.Tape[j] != s {
			if diff.Cells == nil {
				diff.Cells = make(map[int]Symbol)
			}
			diff.Cells[i] = s
		}
	}

	if diff.Empty() {
		return nil
	}
	return diff
}
