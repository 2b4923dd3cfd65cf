package runtime

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape is the visited window of an unbounded tape.
//
// Cells at or right of the initial leftmost cell live in right; cells grown
// to the left live in left in reverse order, so growth on either side is an
// append. Logical index i maps to left[len(left)-1-i] while i < len(left).
type Tape struct {
	left     []domain.Symbol
	right    []domain.Symbol
	head     int
	empty    domain.Symbol
	alphabet map[domain.Symbol]struct{}
}

// TapeOption configures a Tape.
type TapeOption func(*Tape)

// WithAlphabet restricts the symbols that may be written.
func WithAlphabet(symbols ...domain.Symbol) TapeOption {
	return func(t *Tape) {
		t.alphabet = make(map[domain.Symbol]struct{}, len(symbols))
		for _, s := range symbols {
			t.alphabet[s] = struct{}{}
		}
	}
}

// NewTape creates a tape holding a copy of cells with the head at index head.
// An empty cells slice seeds a single empty cell with the head on it.
func NewTape(empty domain.Symbol, cells []domain.Symbol, head int, opts ...TapeOption) (*Tape, error) {
	t := &Tape{empty: empty}
	for _, opt := range opts {
		opt(t)
	}

	if len(cells) == 0 {
		t.right = []domain.Symbol{empty}
		return t, nil
	}

	if head < 0 || head >= len(cells) {
		return nil, fmt.Errorf("%w %d for tape of length %d", domain.ErrInvalidHeadIndex, head, len(cells))
	}
	for _, c := range cells {
		if !t.allowed(c) {
			return nil, fmt.Errorf("%w '%s' on initial tape", domain.ErrInvalidSymbol, c)
		}
	}

	t.right = make([]domain.Symbol, len(cells))
	copy(t.right, cells)
	t.head = head
	return t, nil
}

func (t *Tape) allowed(s domain.Symbol) bool {
	if t.alphabet == nil {
		return true
	}
	_, ok := t.alphabet[s]
	return ok
}

func (t *Tape) cell(i int) *domain.Symbol {
	if i < len(t.left) {
		return &t.left[len(t.left)-1-i]
	}
	return &t.right[i-len(t.left)]
}

// Read returns the symbol under the head.
func (t *Tape) Read() domain.Symbol {
	return *t.cell(t.head)
}

// Write overwrites the cell under the head.
func (t *Tape) Write(s domain.Symbol) error {
	if !t.allowed(s) {
		return fmt.Errorf("%w '%s'", domain.ErrInvalidSymbol, s)
	}
	*t.cell(t.head) = s
	return nil
}

// MoveLeft moves the head one cell left, materializing an empty cell when
// the head falls off the left edge. The head index then stays 0.
func (t *Tape) MoveLeft() {
	if t.head == 0 {
		t.left = append(t.left, t.empty)
		return
	}
	t.head--
}

// MoveRight moves the head one cell right, appending an empty cell at the edge.
func (t *Tape) MoveRight() {
	t.head++
	if t.head == t.Len() {
		t.right = append(t.right, t.empty)
	}
}

// Move applies a head action. Unknown actions leave the head in place.
func (t *Tape) Move(a domain.HeadAction) {
	switch a {
	case domain.Left:
		t.MoveLeft()
	case domain.Right:
		t.MoveRight()
	}
}

// Head returns the head index.
func (t *Tape) Head() int {
	return t.head
}

// Len returns the number of materialized cells.
func (t *Tape) Len() int {
	return len(t.left) + len(t.right)
}

// Origin returns the index of the initial leftmost cell.
func (t *Tape) Origin() int {
	return len(t.left)
}

// Empty returns the blank symbol.
func (t *Tape) Empty() domain.Symbol {
	return t.empty
}

// Snapshot returns a copy of all cells from left to right.
func (t *Tape) Snapshot() []domain.Symbol {
	out := make([]domain.Symbol, 0, t.Len())
	for i := len(t.left) - 1; i >= 0; i-- {
		out = append(out, t.left[i])
	}
	return append(out, t.right...)
}

func (t *Tape) String() string {
	s := ""
	for i, c := range t.Snapshot() {
		if i == t.head {
			s += "[" + string(c) + "]"
		} else {
			s += " " + string(c) + " "
		}
	}
	return s
}
