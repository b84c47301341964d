package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/padelparc/platform/internal/domain"
)

// PgEventRepository implements EventRepository using pgx. Dates travel
// as YYYY-MM-DD strings and times as HH:MM strings; the casts below keep
// the mapping in SQL.
type PgEventRepository struct{}

// NewPgEventRepository creates a new PgEventRepository.
func NewPgEventRepository() *PgEventRepository {
	return &PgEventRepository{}
}

const eventColumns = `id, event_date::text, event_time, created_at, updated_at`

// List returns a page of events plus the total.
func (r *PgEventRepository) List(ctx context.Context, db DBTX, f EventFilter) ([]domain.Event, int, error) {
	where := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if f.StartDate != "" {
		where = append(where, fmt.Sprintf("event_date >= $%d::date", argIdx))
		args = append(args, f.StartDate)
		argIdx++
	}
	if f.EndDate != "" {
		where = append(where, fmt.Sprintf("event_date <= $%d::date", argIdx))
		args = append(args, f.EndDate)
		argIdx++
	}
	if f.Month != "" {
		where = append(where, fmt.Sprintf("to_char(event_date, 'YYYY-MM') = $%d", argIdx))
		args = append(args, f.Month)
		argIdx++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY event_date, event_time LIMIT $%d OFFSET $%d`,
		eventColumns, cond, argIdx, argIdx+1)
	rows, err := db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Date, &e.Time, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// FindByID returns an event by ID, or nil if not found.
func (r *PgEventRepository) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Event, error) {
	var e domain.Event
	err := db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id).
		Scan(&e.ID, &e.Date, &e.Time, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LockByID locks the event row, or returns nil if the event is gone.
func (r *PgEventRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Event, error) {
	var e domain.Event
	err := tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id).
		Scan(&e.ID, &e.Date, &e.Time, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *PgEventRepository) Create(ctx context.Context, db DBTX, e *domain.Event) error {
	row := db.QueryRow(ctx,
		`INSERT INTO events (event_date, event_time) VALUES ($1::date, $2)
		 RETURNING id, created_at, updated_at`,
		e.Date, e.Time)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies an event's schedule.
func (r *PgEventRepository) Update(ctx context.Context, db DBTX, e *domain.Event) error {
	tag, err := db.Exec(ctx,
		`UPDATE events SET event_date = $1::date, event_time = $2, updated_at = now() WHERE id = $3`,
		e.Date, e.Time, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("event", fmt.Sprint(e.ID))
	}
	return nil
}

// Delete removes an event.
func (r *PgEventRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("event", fmt.Sprint(id))
	}
	return nil
}
