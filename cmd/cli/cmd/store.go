package cmd

import (
	"context"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/internal/config"
	"fuzzy-rank/internal/errors"
)

// openStore opens the configured backend, failing when none is configured
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	store, err := storage.Open(ctx, storageConfig(cfg))
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New(errors.TypeConfig, "no storage backend configured (set storage.backend to memory, file, sqlite or postgres)")
	}
	return store, nil
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Backend: storage.Backend(cfg.Storage.Backend),
		Path:    cfg.Storage.Path,
		DSN:     cfg.Storage.DSN,
	}
}
