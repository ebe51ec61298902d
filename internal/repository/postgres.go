package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCollectionStore keeps each collection as one JSONB document
type PostgresCollectionStore struct {
	db *pgxpool.Pool
}

// NewPostgresCollectionStore creates a new postgres-backed collection store
func NewPostgresCollectionStore(db *pgxpool.Pool) *PostgresCollectionStore {
	return &PostgresCollectionStore{db: db}
}

// Migrate creates the collections table if it does not exist
func (r *PostgresCollectionStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

// ReadCollection returns the stored document
func (r *PostgresCollectionStore) ReadCollection(ctx context.Context, name string) ([]byte, error) {
	query := `SELECT data FROM collections WHERE name = $1`
	var data []byte
	err := r.db.QueryRow(ctx, query, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrCollectionMissing)
		}
		return nil, fmt.Errorf("%s: %w: %v", name, ErrStoreUnavailable, err)
	}
	return data, nil
}

// WriteCollection replaces the stored document in a single statement
func (r *PostgresCollectionStore) WriteCollection(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	if _, err := r.db.Exec(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}
