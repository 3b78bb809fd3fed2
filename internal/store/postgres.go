package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createCollectionsTablePostgres = `
		CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			records    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	selectCollectionPostgres = `SELECT records FROM collections WHERE name = $1`

	upsertCollectionPostgres = `
		INSERT INTO collections (name, records, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET records = EXCLUDED.records, updated_at = EXCLUDED.updated_at`
)

// PostgresStore keeps every collection as one JSONB row of the collections
// table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the collections table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if _, err := pool.Exec(ctx, createCollectionsTablePostgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating collections table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Load(ctx context.Context, collection string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, selectCollectionPostgres, collection).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	return data, nil
}

func (s *PostgresStore) Save(ctx context.Context, collection string, data []byte) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, upsertCollectionPostgres, collection, string(data)); err != nil {
		return fmt.Errorf("upserting collection: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
