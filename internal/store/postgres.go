package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the record-store contract on a single jsonb
// table for self-hosted deployments. Collections stay schemaless: each
// record is one row holding its full field map.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed implementation.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FetchAll lists every record in the collection. Matching stays
// client-side to keep parity with the hosted store's list-everything API.
func (s *PostgresStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	const query = `
        SELECT id, fields
        FROM records WHERE collection=$1
        ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		records = append(records, Record{ID: id, Fields: fields})
	}
	return records, rows.Err()
}

// Insert stores a new record under a fresh id.
func (s *PostgresStore) Insert(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	const query = `
        INSERT INTO records (id, collection, fields)
        VALUES ($1, $2, $3)`

	raw, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, query, id, collection, raw); err != nil {
		return Record{}, err
	}
	return Record{ID: id, Fields: fields}, nil
}

// Update replaces the field map of an existing record.
func (s *PostgresStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	const query = `
        UPDATE records SET fields=$1, updated_at=NOW()
        WHERE id=$2 AND collection=$3`

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	cmd, err := s.pool.Exec(ctx, query, raw, id, collection)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
