package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSchema creates the table backing PostgresStorage
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS kv_records (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStorage implements Store on a single key/value table
type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage connects to Postgres and makes sure the table exists
func NewPostgresStorage(ctx context.Context, connString string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_records table: %w", err)
	}

	return &PostgresStorage{db: pool}, nil
}

// NewPostgresStorageFromPool wraps an existing pool; the caller owns the schema
func NewPostgresStorageFromPool(db *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Get retrieves the value stored for key
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_records WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Put upserts the value for key
func (s *PostgresStorage) Put(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`

	_, err := s.db.Exec(ctx, query, key, data)
	return err
}

// Delete removes the row for key
func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_records WHERE key = $1`, key)
	return err
}

func (s *PostgresStorage) Close() error {
	s.db.Close()
	return nil
}
