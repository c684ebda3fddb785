package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// FileStore is a file-based storage backend, one JSON file per ranking
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Storage("failed to create storage directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) pathFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", errors.Newf(errors.TypeInput, "invalid ranking id %q", id)
	}
	return filepath.Join(s.basePath, id+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, ranking *types.Ranking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ranking.ID == "" {
		ranking.ID = uuid.New().String()
	}
	if ranking.CreatedAt.IsZero() {
		ranking.CreatedAt = time.Now().UTC()
	}

	path, err := s.pathFor(ranking.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ranking, "", "  ")
	if err != nil {
		return errors.Internal("failed to marshal ranking", err)
	}

	// write-then-rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Storage("failed to write ranking", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Storage("failed to write ranking", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*types.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}
	return readRanking(path, id)
}

func readRanking(path, id string) (*types.Ranking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("ranking", id)
		}
		return nil, errors.Storage("failed to read ranking", err)
	}
	var result types.Ranking
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Storage(fmt.Sprintf("failed to unmarshal ranking %s", id), err)
	}
	return &result, nil
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*types.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, errors.Storage("failed to read storage", err)
	}

	var results []*types.Ranking
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		result, err := readRanking(filepath.Join(s.basePath, entry.Name()), id)
		if err != nil {
			continue // Skip unreadable files
		}
		if filter.match(result) {
			results = append(results, result)
		}
	}

	return page(results, filter), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathFor(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("ranking", id)
		}
		return errors.Storage("failed to delete ranking", err)
	}
	return nil
}

func (s *FileStore) Latest(ctx context.Context, name string) (*types.Ranking, error) {
	results, err := s.List(ctx, &ListFilter{Name: name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NotFound("ranking for input", name)
	}
	return results[0], nil
}

func (s *FileStore) Close() error {
	return nil
}
