package compiler

// set is an insertion ordered set of tokens.
type set[T ~string] struct {
	order []T
	index map[T]struct{}
}

func newSet[T ~string](items ...T) *set[T] {
	s := &set[T]{index: make(map[T]struct{}, len(items))}
	s.add(items...)
	return s
}

// add ignores empty tokens; they never name a state or symbol.
func (s *set[T]) add(items ...T) {
	for _, v := range items {
		if v == "" {
			continue
		}
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.order = append(s.order, v)
	}
}

func (s *set[T]) has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *set[T]) items() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}
