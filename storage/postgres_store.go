package storage

import (
	"context"
	"errors"
	"fmt"

	"guildbot/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable is the subset of pgx used by the store, satisfied by *pgxpool.Pool and pgx.Tx
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps documents as jsonb rows in the documents table
type PostgresStore struct {
	q Queryable
}

// NewPostgresStore creates a store backed by the given connection pool
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{q: db.Pool}
}

// Load returns the body of the named document
func (s *PostgresStore) Load(ctx context.Context, name string) ([]byte, error) {
	query := `
		SELECT body
		FROM documents
		WHERE name = $1
	`

	var body []byte
	err := s.q.QueryRow(ctx, query, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", name, err)
	}

	return body, nil
}

// Save upserts the named document
func (s *PostgresStore) Save(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := s.q.Exec(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}

	return nil
}
