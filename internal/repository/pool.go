package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgPoolRepository implements PoolRepository using pgx.
type PgPoolRepository struct{}

// NewPgPoolRepository creates a new PgPoolRepository.
func NewPgPoolRepository() *PgPoolRepository {
	return &PgPoolRepository{}
}

// List returns a page of pools plus the total.
func (r *PgPoolRepository) List(ctx context.Context, db DBTX, page, limit int) ([]domain.Pool, int, error) {
	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM pools`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pools: %w", err)
	}

	lim, offset := pageBounds(page, limit)
	rows, err := db.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM pools ORDER BY name LIMIT $1 OFFSET $2`,
		lim, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pools: %w", err)
	}
	defer rows.Close()

	var pools []domain.Pool
	for rows.Next() {
		var p domain.Pool
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		pools = append(pools, p)
	}
	return pools, total, rows.Err()
}

// FindByID returns a pool by ID, or nil if not found.
func (r *PgPoolRepository) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Pool, error) {
	var p domain.Pool
	err := db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM pools WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new pool.
func (r *PgPoolRepository) Create(ctx context.Context, db DBTX, p *domain.Pool) error {
	row := db.QueryRow(ctx,
		`INSERT INTO pools (name) VALUES ($1) RETURNING id, created_at, updated_at`, p.Name)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateName renames a pool.
func (r *PgPoolRepository) UpdateName(ctx context.Context, db DBTX, id int64, name string) error {
	tag, err := db.Exec(ctx,
		`UPDATE pools SET name = $1, updated_at = now() WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("pool", fmt.Sprint(id))
	}
	return nil
}

// Delete removes a pool.
func (r *PgPoolRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM pools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("pool", fmt.Sprint(id))
	}
	return nil
}
