package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgTeamRepository implements TeamRepository using pgx.
type PgTeamRepository struct{}

// NewPgTeamRepository creates a new PgTeamRepository.
func NewPgTeamRepository() *PgTeamRepository {
	return &PgTeamRepository{}
}

const teamJoinedColumns = `
	t.id, t.company, t.player1_id, t.player2_id, t.pool_id, t.created_at, t.updated_at,
	p1.id, p1.first_name, p1.last_name, p1.company, p1.license_number,
	p2.id, p2.first_name, p2.last_name, p2.company, p2.license_number,
	po.id, po.name`

const teamJoins = `
	FROM teams t
	JOIN players p1 ON p1.id = t.player1_id
	JOIN players p2 ON p2.id = t.player2_id
	LEFT JOIN pools po ON po.id = t.pool_id`

// List returns a page of teams with players and pool loaded, plus the total.
func (r *PgTeamRepository) List(ctx context.Context, db DBTX, f TeamFilter) ([]domain.Team, int, error) {
	where := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if f.PoolID != 0 {
		where = append(where, fmt.Sprintf("t.pool_id = $%d", argIdx))
		args = append(args, f.PoolID)
		argIdx++
	}
	if f.Company != "" {
		where = append(where, fmt.Sprintf("t.company = $%d", argIdx))
		args = append(args, f.Company)
		argIdx++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM teams t WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count teams: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`,
		teamJoinedColumns, teamJoins, cond, argIdx, argIdx+1)
	rows, err := db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanJoinedTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, *t)
	}
	return teams, total, rows.Err()
}

// FindByID returns a team with players and pool loaded, or nil.
func (r *PgTeamRepository) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Team, error) {
	row := db.QueryRow(ctx, `SELECT `+teamJoinedColumns+teamJoins+` WHERE t.id = $1`, id)
	t, err := scanJoinedTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindByPlayer returns the team a player belongs to, or nil.
func (r *PgTeamRepository) FindByPlayer(ctx context.Context, db DBTX, playerID int64) (*domain.Team, error) {
	row := db.QueryRow(ctx,
		`SELECT `+teamJoinedColumns+teamJoins+` WHERE t.player1_id = $1 OR t.player2_id = $1`, playerID)
	t, err := scanJoinedTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TeamedPlayerIDs reports which of the given players already belong to a team.
func (r *PgTeamRepository) TeamedPlayerIDs(ctx context.Context, db DBTX, playerIDs []int64, excludeTeamID int64) (map[int64]bool, error) {
	rows, err := db.Query(ctx,
		`SELECT player1_id, player2_id FROM teams WHERE id <> $1 AND (player1_id = ANY($2) OR player2_id = ANY($2))`,
		excludeTeamID, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("find teamed players: %w", err)
	}
	defer rows.Close()

	wanted := make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = true
	}

	teamed := make(map[int64]bool)
	for rows.Next() {
		var p1, p2 int64
		if err := rows.Scan(&p1, &p2); err != nil {
			return nil, err
		}
		if wanted[p1] {
			teamed[p1] = true
		}
		if wanted[p2] {
			teamed[p2] = true
		}
	}
	return teamed, rows.Err()
}

// LockByIDs locks the team rows; returns only the rows that exist.
func (r *PgTeamRepository) LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.Team, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, company, player1_id, player2_id, pool_id, created_at, updated_at
		 FROM teams WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Company, &t.Player1ID, &t.Player2ID, &t.PoolID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Create inserts a new team.
func (r *PgTeamRepository) Create(ctx context.Context, db DBTX, t *domain.Team) error {
	row := db.QueryRow(ctx,
		`INSERT INTO teams (company, player1_id, player2_id, pool_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Company, t.Player1ID, t.Player2ID, t.PoolID)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies a team.
func (r *PgTeamRepository) Update(ctx context.Context, db DBTX, t *domain.Team) error {
	tag, err := db.Exec(ctx,
		`UPDATE teams SET company = $1, player1_id = $2, player2_id = $3, pool_id = $4, updated_at = now()
		 WHERE id = $5`,
		t.Company, t.Player1ID, t.Player2ID, t.PoolID, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("team", fmt.Sprint(t.ID))
	}
	return nil
}

// Delete removes a team.
func (r *PgTeamRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("team", fmt.Sprint(id))
	}
	return nil
}

// AssignPool sets the pool of the given teams.
func (r *PgTeamRepository) AssignPool(ctx context.Context, db DBTX, teamIDs []int64, poolID int64) error {
	_, err := db.Exec(ctx,
		`UPDATE teams SET pool_id = $1, updated_at = now() WHERE id = ANY($2)`, poolID, teamIDs)
	return err
}

// ClearPool unassigns every team of a pool.
func (r *PgTeamRepository) ClearPool(ctx context.Context, db DBTX, poolID int64) error {
	_, err := db.Exec(ctx,
		`UPDATE teams SET pool_id = NULL, updated_at = now() WHERE pool_id = $1`, poolID)
	return err
}

// ListByPool returns a pool's teams with players loaded.
func (r *PgTeamRepository) ListByPool(ctx context.Context, db DBTX, poolID int64) ([]domain.Team, error) {
	rows, err := db.Query(ctx,
		`SELECT `+teamJoinedColumns+teamJoins+` WHERE t.pool_id = $1 ORDER BY t.id`, poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanJoinedTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func scanJoinedTeam(row pgx.Row) (*domain.Team, error) {
	t := &domain.Team{}
	p1 := &domain.Player{}
	p2 := &domain.Player{}
	var poolID *int64
	var poolName *string
	err := row.Scan(
		&t.ID, &t.Company, &t.Player1ID, &t.Player2ID, &t.PoolID, &t.CreatedAt, &t.UpdatedAt,
		&p1.ID, &p1.FirstName, &p1.LastName, &p1.Company, &p1.LicenseNumber,
		&p2.ID, &p2.FirstName, &p2.LastName, &p2.Company, &p2.LicenseNumber,
		&poolID, &poolName,
	)
	if err != nil {
		return nil, err
	}
	t.Player1 = p1
	t.Player2 = p2
	if poolID != nil && poolName != nil {
		t.Pool = &domain.Pool{ID: *poolID, Name: *poolName}
	}
	return t, nil
}
