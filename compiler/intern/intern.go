package intern

import (
	"fmt"
	"sync"
)

// A Set is an append-only, deduplicating table. Each distinct key is given the
// index of the slot it was first inserted at, and that index stays valid for
// the lifetime of the set: entries are never removed or rewritten. Sorts use
// the index directly as the bits of their value handles.
//
// The set is safe for concurrent use. Every critical section is a single map
// probe plus at most one append.
type Set[K comparable, T any] struct {
	mu    sync.Mutex
	index map[K]uint64
	items []T
}

func NewSet[K comparable, T any]() *Set[K, T] {
	return &Set[K, T]{index: make(map[K]uint64), items: make([]T, 0)}
}

// Insert returns the index of the entry with the given key, appending item
// first if the key has not been seen.
func (s *Set[K, T]) Insert(key K, item T) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		s.index = make(map[K]uint64)
	}
	if i, ok := s.index[key]; ok {
		return i
	}
	i := uint64(len(s.items))
	s.items = append(s.items, item)
	s.index[key] = i
	return i
}

// Get returns the entry at index i. An index that was never handed out by
// Insert is a broken invariant, not a lookup miss, so it panics.
func (s *Set[K, T]) Get(i uint64) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i >= uint64(len(s.items)) {
		panic(fmt.Sprintf("intern: handle %d out of range (%d entries)", i, len(s.items)))
	}
	return s.items[i]
}
