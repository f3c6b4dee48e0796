package logic

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store
type MemoryStore[T Identified] struct {
	mu    sync.RWMutex
	items map[int]T
}

// NewMemoryStore creates a new memory-based entity store
func NewMemoryStore[T Identified]() *MemoryStore[T] {
	return &MemoryStore[T]{
		items: make(map[int]T),
	}
}

func (s *MemoryStore[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// All returns a copy ordered by id
func (s *MemoryStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GetID() < result[j].GetID()
	})
	return result
}

func (s *MemoryStore[T]) Put(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.GetID()] = item
	}
}

func (s *MemoryStore[T]) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
