// Package postgres persists the book as one JSONB row per bucket.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements usecase.BucketStore on a buckets table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const upsertBucket = `
INSERT INTO buckets (name, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = now()
`

// Save upserts every bucket in one transaction so readers never see a half
// snapshot.
func (s *Store) Save(ctx context.Context, buckets map[string]json.RawMessage) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback(ctx)

	for name, payload := range buckets {
		if _, err := tx.Exec(ctx, upsertBucket, name, []byte(payload)); err != nil {
			return fmt.Errorf("save bucket %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot save: %w", err)
	}
	return nil
}

// Load reads all buckets. An empty table returns an empty map.
func (s *Store) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, payload FROM buckets`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	buckets := make(map[string]json.RawMessage)
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		buckets[name] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return buckets, nil
}
