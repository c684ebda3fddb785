package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// MemoryStore is an in-memory storage backend (for testing)
type MemoryStore struct {
	results map[string]*types.Ranking
	mu      sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*types.Ranking),
	}
}

func (s *MemoryStore) Save(ctx context.Context, ranking *types.Ranking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ranking.ID == "" {
		ranking.ID = uuid.New().String()
	}
	if ranking.CreatedAt.IsZero() {
		ranking.CreatedAt = time.Now().UTC()
	}

	copied := *ranking
	s.results[ranking.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*types.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, errors.NotFound("ranking", id)
	}
	copied := *result
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*types.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*types.Ranking
	for _, result := range s.results {
		if filter.match(result) {
			copied := *result
			results = append(results, &copied)
		}
	}
	return page(results, filter), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return errors.NotFound("ranking", id)
	}
	delete(s.results, id)
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context, name string) (*types.Ranking, error) {
	results, err := s.List(ctx, &ListFilter{Name: name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NotFound("ranking for input", name)
	}
	return results[0], nil
}

func (s *MemoryStore) Close() error {
	return nil
}
