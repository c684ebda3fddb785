// Package storage persists rankings so runs can be listed and compared.
// Supports multiple backends: memory, file, SQLite, PostgreSQL.
package storage

import (
	"context"
	"sort"
	"time"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendNone     Backend = "none"
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Store is the storage interface
type Store interface {
	// Save stores a ranking, assigning an ID when it has none
	Save(ctx context.Context, ranking *types.Ranking) error

	// Get retrieves a ranking by ID
	Get(ctx context.Context, id string) (*types.Ranking, error)

	// List lists rankings, newest first
	List(ctx context.Context, filter *ListFilter) ([]*types.Ranking, error)

	// Delete removes a ranking
	Delete(ctx context.Context, id string) error

	// Latest returns the newest ranking for an input name
	Latest(ctx context.Context, name string) (*types.Ranking, error)

	// Close closes the store
	Close() error
}

// ListFilter filters result listing
type ListFilter struct {
	Name   string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

func (f *ListFilter) match(r *types.Ranking) bool {
	if f == nil {
		return true
	}
	if f.Name != "" && r.Input.Name != f.Name {
		return false
	}
	if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && r.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// page sorts newest first and applies offset/limit
func page(results []*types.Ranking, filter *ListFilter) []*types.Ranking {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if filter == nil {
		return results
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	return results
}

// Config selects and configures a backend
type Config struct {
	Backend Backend
	Path    string
	DSN     string
}

// Open creates a store for the configured backend. BackendNone returns a
// nil Store and no error.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		path := cfg.Path
		if path == "" {
			path = ".fuzzy-rank"
		}
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path)
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported backend: %s", cfg.Backend)
	}
}
