package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRanking(name string, at time.Time, scores ...float64) *types.Ranking {
	r := &types.Ranking{
		Input:     types.InputMetadata{Source: types.SourceCLI, Name: name, Format: "xlsx"},
		InputHash: "abc123",
		TopN:      5,
		CreatedAt: at,
	}
	for i, s := range scores {
		r.Results = append(r.Results, types.Result{
			Record: types.Record{ID: string(rune('A' + i)), Service: 90, Price: decimal.NewFromInt(25000), Row: i + 2},
			Score:  s,
			Rank:   i + 1,
		})
	}
	r.Evaluated = len(scores)
	r.Summary = types.Summary{Count: len(scores), Mean: 50}
	return r
}

// runStoreSuite exercises the behaviour every backend shares
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("SaveAssignsIDAndGetRoundTrips", func(t *testing.T) {
		s := newStore(t)
		r := sampleRanking("restoran.xlsx", base, 65, 40)
		require.NoError(t, s.Save(ctx, r))
		require.NotEmpty(t, r.ID)

		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)
		assert.Equal(t, r.Input, got.Input)
		assert.Equal(t, r.InputHash, got.InputHash)
		assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
		require.Len(t, got.Results, 2)
		assert.Equal(t, "A", got.Results[0].ID)
		assert.Equal(t, 65.0, got.Results[0].Score)
		assert.True(t, got.Results[0].Price.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeNotFound))
	})

	t.Run("ListNewestFirstWithFilters", func(t *testing.T) {
		s := newStore(t)
		old := sampleRanking("a.xlsx", base, 10)
		mid := sampleRanking("b.xlsx", base.Add(time.Hour), 20)
		recent := sampleRanking("a.xlsx", base.Add(2*time.Hour), 30)
		for _, r := range []*types.Ranking{old, mid, recent} {
			require.NoError(t, s.Save(ctx, r))
		}

		all, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{recent.ID, mid.ID, old.ID}, ids(all))

		named, err := s.List(ctx, &ListFilter{Name: "a.xlsx"})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, old.ID}, ids(named))

		since, err := s.List(ctx, &ListFilter{Since: base.Add(30 * time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, mid.ID}, ids(since))

		paged, err := s.List(ctx, &ListFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{mid.ID}, ids(paged))
	})

	t.Run("Latest", func(t *testing.T) {
		s := newStore(t)
		first := sampleRanking("a.xlsx", base, 10)
		second := sampleRanking("a.xlsx", base.Add(time.Minute), 20)
		require.NoError(t, s.Save(ctx, first))
		require.NoError(t, s.Save(ctx, second))

		latest, err := s.Latest(ctx, "a.xlsx")
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)

		_, err = s.Latest(ctx, "missing.xlsx")
		assert.True(t, errors.IsType(err, errors.TypeNotFound))
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		r := sampleRanking("a.xlsx", base, 10)
		require.NoError(t, s.Save(ctx, r))
		require.NoError(t, s.Delete(ctx, r.ID))

		_, err := s.Get(ctx, r.ID)
		assert.True(t, errors.IsType(err, errors.TypeNotFound))
		assert.True(t, errors.IsType(s.Delete(ctx, r.ID), errors.TypeNotFound))
	})

	t.Run("Compare", func(t *testing.T) {
		s := newStore(t)
		before := sampleRanking("a.xlsx", base, 65, 40)
		after := sampleRanking("a.xlsx", base.Add(time.Minute), 40, 65, 20)
		require.NoError(t, s.Save(ctx, before))
		require.NoError(t, s.Save(ctx, after))

		d, err := Compare(ctx, s, before.ID, after.ID)
		require.NoError(t, err)
		assert.Len(t, d.Added, 1)
		assert.Len(t, d.Changed, 2)
		assert.Empty(t, d.Removed)

		_, err = Compare(ctx, s, before.ID, "00000000-0000-0000-0000-000000000000")
		assert.True(t, errors.IsType(err, errors.TypeNotFound))
	})
}

func ids(rs []*types.Ranking) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "nested", "rankings.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FUZZYRANK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FUZZYRANK_TEST_DATABASE_URL not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewPostgresStore(context.Background(), dsn)
		require.NoError(t, err)
		_, err = s.db.Exec(context.Background(), `TRUNCATE rankings`)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	r := sampleRanking("a.xlsx", base, 10)
	r.ID = "../escape"
	err = s.Save(context.Background(), r)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Config{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: BackendSQLite})
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = Open(ctx, Config{Backend: "redis"})
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
