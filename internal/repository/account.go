package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgAccountRepository implements AccountRepository using pgx.
type PgAccountRepository struct{}

// NewPgAccountRepository creates a new PgAccountRepository.
func NewPgAccountRepository() *PgAccountRepository {
	return &PgAccountRepository{}
}

const accountColumns = `id, email, password_hash, role, is_active, must_change_password, created_at, updated_at`

// FindByEmail returns an account by email, or nil if not found.
func (r *PgAccountRepository) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Account, error) {
	row := db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByID returns an account by ID, or nil if not found.
func (r *PgAccountRepository) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error) {
	row := db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// Create inserts a new account.
func (r *PgAccountRepository) Create(ctx context.Context, db DBTX, a *domain.Account) error {
	row := db.QueryRow(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, is_active, must_change_password)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.IsActive, a.MustChangePassword)
	return row.Scan(&a.CreatedAt, &a.UpdatedAt)
}

// UpdatePassword replaces the password hash and the forced-change flag.
func (r *PgAccountRepository) UpdatePassword(ctx context.Context, db DBTX, id uuid.UUID, hash string, mustChange bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, must_change_password = $2, updated_at = now() WHERE id = $3`,
		hash, mustChange, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("account", id.String())
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive,
		&a.MustChangePassword, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
