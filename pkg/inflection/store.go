package inflection

import "sync"

// store is an insertion-ordered rule collection. Readers always get a copy.
type store[T any] struct {
	mu    sync.RWMutex
	items []T
}

func newStore[T any](items []T) *store[T] {
	return &store[T]{items: append([]T(nil), items...)}
}

func (s *store[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
