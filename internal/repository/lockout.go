package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/lockout"
)

// Lockout record tables, one row per key, never hard-deleted.
const (
	LoginAttemptsTable   = "login_attempts"
	AddressAttemptsTable = "address_attempts"
)

// PgLockoutStore implements lockout.Store over one of the attempt tables.
// Mutate serializes concurrent updates for the same key through an
// insert-if-absent plus a row-level lock in a single transaction, so two
// concurrent failures can never both read the same pre-increment count.
type PgLockoutStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPgLockoutStore creates a store over the given attempts table.
// The table name must be one of the package constants, never user input.
func NewPgLockoutStore(pool *pgxpool.Pool, table string) *PgLockoutStore {
	return &PgLockoutStore{pool: pool, table: table}
}

// Find returns the record for key, or nil if the key has never been seen.
func (s *PgLockoutStore) Find(ctx context.Context, key string) (*lockout.Record, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT key, failure_count, last_failure_at, locked_until FROM %s WHERE key = $1`, s.table), key)
	return scanLockoutRecord(row)
}

// Mutate runs fn against the row for key under a row-level lock,
// creating the row first if absent, and persists the result.
func (s *PgLockoutStore) Mutate(ctx context.Context, key string, fn func(*lockout.Record)) (*lockout.Record, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin lockout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Find-or-create: the unique key index makes concurrent first
	// attempts converge on one row.
	_, err = tx.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, failure_count) VALUES ($1, 0) ON CONFLICT (key) DO NOTHING`, s.table), key)
	if err != nil {
		return nil, fmt.Errorf("ensure lockout row: %w", err)
	}

	row := tx.QueryRow(ctx, fmt.Sprintf(
		`SELECT key, failure_count, last_failure_at, locked_until FROM %s WHERE key = $1 FOR UPDATE`, s.table), key)
	rec, err := scanLockoutRecord(row)
	if err != nil {
		return nil, fmt.Errorf("lock lockout row: %w", err)
	}

	fn(rec)

	var lastFailure *time.Time
	if !rec.LastFailureAt.IsZero() {
		lastFailure = &rec.LastFailureAt
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET failure_count = $1, last_failure_at = $2, locked_until = $3 WHERE key = $4`, s.table),
		rec.FailureCount, lastFailure, rec.LockedUntil, key)
	if err != nil {
		return nil, fmt.Errorf("save lockout row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit lockout tx: %w", err)
	}
	return rec, nil
}

func scanLockoutRecord(row pgx.Row) (*lockout.Record, error) {
	rec := &lockout.Record{}
	var lastFailure *time.Time
	err := row.Scan(&rec.Key, &rec.FailureCount, &lastFailure, &rec.LockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastFailure != nil {
		rec.LastFailureAt = *lastFailure
	}
	return rec, nil
}
