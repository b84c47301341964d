package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgMatchRepository implements MatchRepository using pgx.
type PgMatchRepository struct{}

// NewPgMatchRepository creates a new PgMatchRepository.
func NewPgMatchRepository() *PgMatchRepository {
	return &PgMatchRepository{}
}

const matchColumns = `m.id, m.event_id, m.team1_id, m.team2_id, m.court_number, m.status,
	m.score_team1, m.score_team2, m.created_at, m.updated_at`

const matchTeamJoins = `
	FROM matches m
	JOIN teams t1 ON t1.id = m.team1_id
	JOIN teams t2 ON t2.id = m.team2_id`

// List returns a page of matches with team companies loaded, plus the total.
func (r *PgMatchRepository) List(ctx context.Context, db DBTX, f MatchFilter) ([]domain.Match, int, error) {
	where := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if f.EventID != 0 {
		where = append(where, fmt.Sprintf("m.event_id = $%d", argIdx))
		args = append(args, f.EventID)
		argIdx++
	}
	if f.TeamID != 0 {
		where = append(where, fmt.Sprintf("(m.team1_id = $%d OR m.team2_id = $%d)", argIdx, argIdx))
		args = append(args, f.TeamID)
		argIdx++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("m.status = $%d", argIdx))
		args = append(args, string(f.Status))
		argIdx++
	}
	if f.Upcoming {
		where = append(where, fmt.Sprintf("m.status = $%d", argIdx))
		args = append(args, string(domain.MatchUpcoming))
		argIdx++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM matches m WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s, t1.company, t2.company %s WHERE %s ORDER BY m.id LIMIT $%d OFFSET $%d`,
		matchColumns, matchTeamJoins, cond, argIdx, argIdx+1)
	rows, err := db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches, err := collectMatchesWithCompanies(rows)
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// FindByID returns a match with team companies loaded, or nil.
func (r *PgMatchRepository) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Match, error) {
	row := db.QueryRow(ctx,
		`SELECT `+matchColumns+`, t1.company, t2.company`+matchTeamJoins+` WHERE m.id = $1`, id)
	m, err := scanMatchWithCompanies(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LockByID locks the match row for the rest of the transaction, or
// returns nil if the match is gone. Companies are not loaded.
func (r *PgMatchRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Match, error) {
	m := &domain.Match{}
	var status string
	err := tx.QueryRow(ctx,
		`SELECT id, event_id, team1_id, team2_id, court_number, status,
		        score_team1, score_team2, created_at, updated_at
		 FROM matches WHERE id = $1 FOR UPDATE`, id).
		Scan(&m.ID, &m.EventID, &m.Team1ID, &m.Team2ID, &m.CourtNumber, &status,
			&m.ScoreTeam1, &m.ScoreTeam2, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Status = domain.MatchStatus(status)
	return m, nil
}

// ListByEvent returns an event's matches with team companies loaded.
func (r *PgMatchRepository) ListByEvent(ctx context.Context, db DBTX, eventID int64) ([]domain.Match, error) {
	rows, err := db.Query(ctx,
		`SELECT `+matchColumns+`, t1.company, t2.company`+matchTeamJoins+
			` WHERE m.event_id = $1 ORDER BY m.court_number`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event matches: %w", err)
	}
	defer rows.Close()
	return collectMatchesWithCompanies(rows)
}

// Create inserts a new match.
func (r *PgMatchRepository) Create(ctx context.Context, db DBTX, m *domain.Match) error {
	row := db.QueryRow(ctx,
		`INSERT INTO matches (event_id, team1_id, team2_id, court_number, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		m.EventID, m.Team1ID, m.Team2ID, m.CourtNumber, string(m.Status))
	return row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Update modifies a match.
func (r *PgMatchRepository) Update(ctx context.Context, db DBTX, m *domain.Match) error {
	tag, err := db.Exec(ctx,
		`UPDATE matches
		 SET team1_id = $1, team2_id = $2, court_number = $3, status = $4,
		     score_team1 = $5, score_team2 = $6, updated_at = now()
		 WHERE id = $7`,
		m.Team1ID, m.Team2ID, m.CourtNumber, string(m.Status), m.ScoreTeam1, m.ScoreTeam2, m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", fmt.Sprint(m.ID))
	}
	return nil
}

// Delete removes a match.
func (r *PgMatchRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", fmt.Sprint(id))
	}
	return nil
}

// ListCompleted returns every completed match with team companies loaded.
func (r *PgMatchRepository) ListCompleted(ctx context.Context, db DBTX) ([]domain.Match, error) {
	rows, err := db.Query(ctx,
		`SELECT `+matchColumns+`, t1.company, t2.company`+matchTeamJoins+
			` WHERE m.status = $1 ORDER BY m.id`, string(domain.MatchCompleted))
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	defer rows.Close()
	return collectMatchesWithCompanies(rows)
}

// ListCompletedByTeam returns a team's completed matches.
func (r *PgMatchRepository) ListCompletedByTeam(ctx context.Context, db DBTX, teamID int64) ([]domain.Match, error) {
	rows, err := db.Query(ctx,
		`SELECT `+matchColumns+`, t1.company, t2.company`+matchTeamJoins+
			` WHERE m.status = $1 AND (m.team1_id = $2 OR m.team2_id = $2) ORDER BY m.id`,
		string(domain.MatchCompleted), teamID)
	if err != nil {
		return nil, fmt.Errorf("list team matches: %w", err)
	}
	defer rows.Close()
	return collectMatchesWithCompanies(rows)
}

// StatusesByTeams returns the statuses of all matches involving any of
// the given teams.
func (r *PgMatchRepository) StatusesByTeams(ctx context.Context, db DBTX, teamIDs []int64) ([]domain.MatchStatus, error) {
	rows, err := db.Query(ctx,
		`SELECT status FROM matches WHERE team1_id = ANY($1) OR team2_id = ANY($1)`, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("match statuses: %w", err)
	}
	defer rows.Close()
	return collectStatuses(rows)
}

// StatusesByEvent returns the statuses of an event's matches.
func (r *PgMatchRepository) StatusesByEvent(ctx context.Context, db DBTX, eventID int64) ([]domain.MatchStatus, error) {
	rows, err := db.Query(ctx, `SELECT status FROM matches WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("match statuses: %w", err)
	}
	defer rows.Close()
	return collectStatuses(rows)
}

func collectStatuses(rows pgx.Rows) ([]domain.MatchStatus, error) {
	var statuses []domain.MatchStatus
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.MatchStatus(s))
	}
	return statuses, rows.Err()
}

func collectMatchesWithCompanies(rows pgx.Rows) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatchWithCompanies(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func scanMatchWithCompanies(row pgx.Row) (*domain.Match, error) {
	m := &domain.Match{}
	var status string
	var company1, company2 string
	err := row.Scan(
		&m.ID, &m.EventID, &m.Team1ID, &m.Team2ID, &m.CourtNumber, &status,
		&m.ScoreTeam1, &m.ScoreTeam2, &m.CreatedAt, &m.UpdatedAt,
		&company1, &company2,
	)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MatchStatus(status)
	m.Team1 = &domain.Team{ID: m.Team1ID, Company: company1}
	m.Team2 = &domain.Team{ID: m.Team2ID, Company: company2}
	return m, nil
}
