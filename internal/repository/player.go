package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgPlayerRepository implements PlayerRepository using pgx.
type PgPlayerRepository struct{}

// NewPgPlayerRepository creates a new PgPlayerRepository.
func NewPgPlayerRepository() *PgPlayerRepository {
	return &PgPlayerRepository{}
}

const playerColumns = `id, first_name, last_name, company, license_number, birth_date::text, email, account_id, created_at, updated_at`

// List returns a page of players plus the unpaginated total.
func (r *PgPlayerRepository) List(ctx context.Context, db DBTX, f PlayerFilter) ([]domain.Player, int, error) {
	where := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if f.Company != "" {
		where = append(where, fmt.Sprintf("company = $%d", argIdx))
		args = append(args, f.Company)
		argIdx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR license_number ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM players WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		playerColumns, cond, argIdx, argIdx+1)
	rows, err := db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayerFrom(rows)
		if err != nil {
			return nil, 0, err
		}
		players = append(players, *p)
	}
	return players, total, rows.Err()
}

// FindByID returns a player by ID, or nil if not found.
func (r *PgPlayerRepository) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Player, error) {
	row := db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

// FindByAccount returns the player linked to an account, or nil.
func (r *PgPlayerRepository) FindByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE account_id = $1`, accountID)
	return scanPlayer(row)
}

// LockByIDs locks the player rows to serialize team-membership checks.
func (r *PgPlayerRepository) LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.Player, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayerFrom(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// Create inserts a new player.
func (r *PgPlayerRepository) Create(ctx context.Context, db DBTX, p *domain.Player) error {
	row := db.QueryRow(ctx,
		`INSERT INTO players (first_name, last_name, company, license_number, birth_date, email, account_id)
		 VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.FirstName, p.LastName, p.Company, p.LicenseNumber, p.BirthDate, p.Email, p.AccountID)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies a player.
func (r *PgPlayerRepository) Update(ctx context.Context, db DBTX, p *domain.Player) error {
	tag, err := db.Exec(ctx,
		`UPDATE players SET first_name = $1, last_name = $2, company = $3,
		        birth_date = $4::date, email = $5, account_id = $6, updated_at = now()
		 WHERE id = $7`,
		p.FirstName, p.LastName, p.Company, p.BirthDate, p.Email, p.AccountID, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("player", fmt.Sprint(p.ID))
	}
	return nil
}

// Delete removes a player.
func (r *PgPlayerRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("player", fmt.Sprint(id))
	}
	return nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	p, err := scanPlayerFrom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPlayerFrom(row pgx.Row) (*domain.Player, error) {
	p := &domain.Player{}
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Company, &p.LicenseNumber,
		&p.BirthDate, &p.Email, &p.AccountID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// pageBounds converts 1-based page/limit into LIMIT/OFFSET with defaults.
func pageBounds(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
