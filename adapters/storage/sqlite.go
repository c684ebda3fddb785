package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rankings (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	input_hash TEXT NOT NULL DEFAULT '',
	evaluated  INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	mean_score REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS rankings_name_created ON rankings (name, created_at);
`

// sqliteTime is lexically sortable
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps rankings in a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates) the database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.TypeConfig, "sqlite backend needs a database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Storage("failed to create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("failed to open sqlite database", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Storage("failed to initialize schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, ranking *types.Ranking) error {
	if ranking.ID == "" {
		ranking.ID = uuid.New().String()
	}
	if ranking.CreatedAt.IsZero() {
		ranking.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ranking)
	if err != nil {
		return errors.Internal("failed to marshal ranking", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rankings (id, name, source, input_hash, evaluated, skipped, mean_score, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			source = excluded.source,
			input_hash = excluded.input_hash,
			evaluated = excluded.evaluated,
			skipped = excluded.skipped,
			mean_score = excluded.mean_score,
			created_at = excluded.created_at,
			payload = excluded.payload`,
		ranking.ID,
		ranking.Input.Name,
		ranking.Input.Source.String(),
		ranking.InputHash,
		ranking.Evaluated,
		len(ranking.Skipped),
		ranking.Summary.Mean,
		ranking.CreatedAt.UTC().Format(sqliteTime),
		string(payload),
	)
	if err != nil {
		return errors.Storage("failed to save ranking", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.Ranking, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM rankings WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("ranking", id)
	}
	if err != nil {
		return nil, errors.Storage("failed to load ranking", err)
	}
	return decodeRanking([]byte(payload))
}

func (s *SQLiteStore) List(ctx context.Context, filter *ListFilter) ([]*types.Ranking, error) {
	var where []string
	var args []interface{}
	limit, offset := -1, 0
	if filter != nil {
		if filter.Name != "" {
			where = append(where, "name = ?")
			args = append(args, filter.Name)
		}
		if !filter.Since.IsZero() {
			where = append(where, "created_at >= ?")
			args = append(args, filter.Since.UTC().Format(sqliteTime))
		}
		if !filter.Until.IsZero() {
			where = append(where, "created_at <= ?")
			args = append(args, filter.Until.UTC().Format(sqliteTime))
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}

	query := `SELECT payload FROM rankings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Storage("failed to list rankings", err)
	}
	defer rows.Close()

	var results []*types.Ranking
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Storage("failed to scan ranking", err)
		}
		r, err := decodeRanking([]byte(payload))
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

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rankings WHERE id = ?`, id)
	if err != nil {
		return errors.Storage("failed to delete ranking", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("ranking", id)
	}
	return nil
}

func (s *SQLiteStore) Latest(ctx context.Context, name string) (*types.Ranking, error) {
	results, err := s.List(ctx, &ListFilter{Name: name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NotFound("ranking for input", name)
	}
	return results[0], nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeRanking(payload []byte) (*types.Ranking, error) {
	var r types.Ranking
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, errors.Storage("failed to decode ranking", err)
	}
	return &r, nil
}
