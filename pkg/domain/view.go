package domain

import "time"

// View is the snapshot a renderer needs to draw a machine: the tape strip,
// the operation label and the counter.
type View struct {
	State       State    `json:"state"`
	Phase       Phase    `json:"phase"`
	Description string   `json:"description"`
	OpCounter   int      `json:"op_counter"`
	HeadOp      HeadOp   `json:"head_op"`
	ReadSymbol  *Symbol  `json:"read_symbol,omitempty"`
	Tape        []Symbol `json:"tape"`
	Head        int      `json:"head"`
	Origin      int      `json:"origin"` // Index of the initial leftmost cell; grows as the tape extends left
	Halted      bool     `json:"halted"`
}

// Session is the persisted record of a machine driven by a host.
// The engine position is stored as the number of micro-steps taken since the
// last reset; the engine is deterministic, so replaying them restores it.
type Session struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	Strict    bool      `json:"strict"`
	Steps     int       `json:"steps"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	out := *s
	out.Config = s.Config.Clone()
	return &out
}
