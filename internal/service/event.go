package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/rules"
)

// EventService handles scheduled events and their match slates. An event
// and its matches are created in one transaction so a half-built slate
// never becomes visible.
type EventService struct {
	pool    *pgxpool.Pool
	events  repository.EventRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(
	pool *pgxpool.Pool,
	events repository.EventRepository,
	teams repository.TeamRepository,
	matches repository.MatchRepository,
) *EventService {
	return &EventService{
		pool:    pool,
		events:  events,
		teams:   teams,
		matches: matches,
		now:     time.Now,
	}
}

// MatchInput describes one match of an event slate.
type MatchInput struct {
	Team1ID     int64 `json:"team1_id"`
	Team2ID     int64 `json:"team2_id"`
	CourtNumber int   `json:"court_number"`
}

// EventInput holds the event creation fields.
type EventInput struct {
	Date    string       `json:"event_date"`
	Time    string       `json:"event_time"`
	Matches []MatchInput `json:"matches"`
}

// List returns a page of events plus the total.
func (s *EventService) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, int, error) {
	events, total, err := s.events.List(ctx, s.pool, f)
	if err != nil {
		return nil, 0, domain.ErrInternal("list events", err)
	}
	return events, total, nil
}

// Get returns an event with its matches loaded.
func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find event", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound("event", fmt.Sprint(id))
	}

	matches, err := s.matches.ListByEvent(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("list event matches", err)
	}
	event.Matches = matches
	return event, nil
}

// Create schedules a new event with its matches.
func (s *EventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	if err := domain.ValidateEventDate(input.Date, s.now()); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateEventTime(input.Time); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	slots := toSlots(input.Matches)
	if v := rules.ValidateEventMatches(slots); v != nil {
		return nil, v.AsAppError()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.checkTeamsExist(ctx, tx, slots); err != nil {
		return nil, err
	}

	event := &domain.Event{Date: input.Date, Time: input.Time}
	if err := s.events.Create(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("create event", err)
	}

	for _, m := range input.Matches {
		match := &domain.Match{
			EventID:     event.ID,
			Team1ID:     m.Team1ID,
			Team2ID:     m.Team2ID,
			CourtNumber: m.CourtNumber,
			Status:      domain.MatchUpcoming,
		}
		if err := s.matches.Create(ctx, tx, match); err != nil {
			return nil, domain.ErrInternal("create match", err)
		}
		event.Matches = append(event.Matches, *match)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return event, nil
}

// Reschedule changes an event's date and time. Rejected once any of the
// event's matches is completed or cancelled.
func (s *EventService) Reschedule(ctx context.Context, id int64, date, timeOfDay string) (*domain.Event, error) {
	if err := domain.ValidateEventDate(date, s.now()); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateEventTime(timeOfDay); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	event, err := s.events.LockByID(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock event", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound("event", fmt.Sprint(id))
	}

	statuses, err := s.matches.StatusesByEvent(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("match statuses", err)
	}
	if v := rules.ValidateMutationAllowed(statuses); v != nil {
		return nil, v.AsAppError()
	}

	event.Date = date
	event.Time = timeOfDay
	if err := s.events.Update(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("update event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return event, nil
}

// Delete removes an event and its matches. Rejected once any match is
// completed or cancelled.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	event, err := s.events.LockByID(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("lock event", err)
	}
	if event == nil {
		return domain.ErrNotFound("event", fmt.Sprint(id))
	}

	statuses, err := s.matches.StatusesByEvent(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("match statuses", err)
	}
	if v := rules.ValidateMutationAllowed(statuses); v != nil {
		return v.AsAppError()
	}

	if err := s.events.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

func (s *EventService) checkTeamsExist(ctx context.Context, tx pgx.Tx, slots []rules.MatchSlot) error {
	ids := make([]int64, 0, len(slots)*2)
	seen := make(map[int64]bool)
	for _, slot := range slots {
		for _, id := range []int64{slot.Team1ID, slot.Team2ID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	locked, err := s.teams.LockByIDs(ctx, tx, ids)
	if err != nil {
		return domain.ErrInternal("lock teams", err)
	}
	if len(locked) != len(ids) {
		return domain.ErrNotFound("team", missingTeamID(locked, ids))
	}
	return nil
}

func toSlots(matches []MatchInput) []rules.MatchSlot {
	slots := make([]rules.MatchSlot, len(matches))
	for i, m := range matches {
		slots[i] = rules.MatchSlot{
			Team1ID:     m.Team1ID,
			Team2ID:     m.Team2ID,
			CourtNumber: m.CourtNumber,
		}
	}
	return slots
}
