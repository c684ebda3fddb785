package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rankings (
	id         UUID PRIMARY KEY,
	name       VARCHAR(500) NOT NULL DEFAULT '',
	source     VARCHAR(50) NOT NULL DEFAULT '',
	input_hash VARCHAR(64) NOT NULL DEFAULT '',
	evaluated  INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	mean_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	payload    JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS rankings_name_created ON rankings (name, created_at DESC);
`

// PostgresStore keeps rankings in PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects, verifies the connection and ensures the schema
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New(errors.TypeConfig, "postgres backend needs a DSN")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Config("invalid postgres DSN", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Storage("failed to create postgres pool", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, errors.Storage("postgres connection failed", err)
	}
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, errors.Storage("failed to initialize schema", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromPool wraps an existing pool; the schema must exist
func NewPostgresStoreFromPool(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, ranking *types.Ranking) error {
	if ranking.ID == "" {
		ranking.ID = uuid.New().String()
	}
	if _, err := uuid.Parse(ranking.ID); err != nil {
		return errors.Newf(errors.TypeInput, "ranking id %q is not a UUID", ranking.ID)
	}
	if ranking.CreatedAt.IsZero() {
		ranking.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ranking)
	if err != nil {
		return errors.Internal("failed to marshal ranking", err)
	}

	query := `
		INSERT INTO rankings (id, name, source, input_hash, evaluated, skipped, mean_score, created_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			source = EXCLUDED.source,
			input_hash = EXCLUDED.input_hash,
			evaluated = EXCLUDED.evaluated,
			skipped = EXCLUDED.skipped,
			mean_score = EXCLUDED.mean_score,
			created_at = EXCLUDED.created_at,
			payload = EXCLUDED.payload
	`
	_, err = s.db.Exec(ctx, query,
		ranking.ID,
		ranking.Input.Name,
		ranking.Input.Source.String(),
		ranking.InputHash,
		ranking.Evaluated,
		len(ranking.Skipped),
		ranking.Summary.Mean,
		ranking.CreatedAt,
		payload,
	)
	if err != nil {
		return errors.Storage("failed to save ranking", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*types.Ranking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("ranking", id)
	}

	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM rankings WHERE id = $1`, id).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("ranking", id)
	}
	if err != nil {
		return nil, errors.Storage("failed to load ranking", err)
	}
	return decodeRanking(payload)
}

func (s *PostgresStore) List(ctx context.Context, filter *ListFilter) ([]*types.Ranking, error) {
	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query := `SELECT payload FROM rankings`
	limit := ""
	if filter != nil {
		if filter.Name != "" {
			where = append(where, "name = "+arg(filter.Name))
		}
		if !filter.Since.IsZero() {
			where = append(where, "created_at >= "+arg(filter.Since))
		}
		if !filter.Until.IsZero() {
			where = append(where, "created_at <= "+arg(filter.Until))
		}
		if filter.Limit > 0 {
			limit += " LIMIT " + arg(filter.Limit)
		}
		if filter.Offset > 0 {
			limit += " OFFSET " + arg(filter.Offset)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC" + limit

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Storage("failed to list rankings", err)
	}
	defer rows.Close()

	var results []*types.Ranking
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Storage("failed to scan ranking", err)
		}
		r, err := decodeRanking(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to list rankings", err)
	}
	return results, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotFound("ranking", id)
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM rankings WHERE id = $1`, id)
	if err != nil {
		return errors.Storage("failed to delete ranking", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("ranking", id)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, name string) (*types.Ranking, error) {
	results, err := s.List(ctx, &ListFilter{Name: name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NotFound("ranking for input", name)
	}
	return results[0], nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
