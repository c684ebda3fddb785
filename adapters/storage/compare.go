package storage

import (
	"context"

	"fuzzy-rank/core/diff"
)

// Compare loads two stored rankings and diffs them
func Compare(ctx context.Context, store Store, beforeID, afterID string) (*diff.Result, error) {
	before, err := store.Get(ctx, beforeID)
	if err != nil {
		return nil, err
	}
	after, err := store.Get(ctx, afterID)
	if err != nil {
		return nil, err
	}
	return diff.NewDiffer(0).Diff(before, after), nil
}
