package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in process memory. The order slice preserves
// insertion order for List, which the map alone cannot.
type MemStore struct {
	mu    sync.RWMutex
	m     map[string]Product
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *MemStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Product{}, false, nil
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}

	s.m[id] = p
	return p, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
