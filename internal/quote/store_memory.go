package quote

import (
	"context"
	"sync"
)

type MemStore struct {
	mu    sync.RWMutex
	m     map[string]Quote
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Quote{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quote, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, q Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[q.ID] = q
	s.order = append(s.order, q.ID)
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Quote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.m[id]
	return q, ok, nil
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
