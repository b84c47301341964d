package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/rules"
	"github.com/padelparc/platform/internal/score"
)

// MatchService handles individual matches. Slate changes lock the event
// row so two concurrent additions cannot both pass the court and team
// checks.
type MatchService struct {
	pool    *pgxpool.Pool
	events  repository.EventRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	pool *pgxpool.Pool,
	events repository.EventRepository,
	teams repository.TeamRepository,
	matches repository.MatchRepository,
) *MatchService {
	return &MatchService{pool: pool, events: events, teams: teams, matches: matches}
}

// List returns a page of matches plus the total.
func (s *MatchService) List(ctx context.Context, f repository.MatchFilter) ([]domain.Match, int, error) {
	matches, total, err := s.matches.List(ctx, s.pool, f)
	if err != nil {
		return nil, 0, domain.ErrInternal("list matches", err)
	}
	return matches, total, nil
}

// Get returns a match by ID.
func (s *MatchService) Get(ctx context.Context, id int64) (*domain.Match, error) {
	match, err := s.matches.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find match", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprint(id))
	}
	return match, nil
}

// Add appends a match to an existing event. The whole slate is
// re-validated with the new match included.
func (s *MatchService) Add(ctx context.Context, eventID int64, input MatchInput) (*domain.Match, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	event, err := s.events.LockByID(ctx, tx, eventID)
	if err != nil {
		return nil, domain.ErrInternal("lock event", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound("event", fmt.Sprint(eventID))
	}

	existing, err := s.matches.ListByEvent(ctx, tx, eventID)
	if err != nil {
		return nil, domain.ErrInternal("list event matches", err)
	}

	slots := make([]rules.MatchSlot, 0, len(existing)+1)
	for _, m := range existing {
		slots = append(slots, rules.MatchSlot{Team1ID: m.Team1ID, Team2ID: m.Team2ID, CourtNumber: m.CourtNumber})
	}
	slots = append(slots, rules.MatchSlot{Team1ID: input.Team1ID, Team2ID: input.Team2ID, CourtNumber: input.CourtNumber})
	if v := rules.ValidateEventMatches(slots); v != nil {
		return nil, v.AsAppError()
	}

	if err := s.checkTeamsExist(ctx, tx, input.Team1ID, input.Team2ID); err != nil {
		return nil, err
	}

	match := &domain.Match{
		EventID:     eventID,
		Team1ID:     input.Team1ID,
		Team2ID:     input.Team2ID,
		CourtNumber: input.CourtNumber,
		Status:      domain.MatchUpcoming,
	}
	if err := s.matches.Create(ctx, tx, match); err != nil {
		return nil, domain.ErrInternal("create match", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return match, nil
}

// Move changes a match's court while it is still upcoming. The slate is
// re-validated with the match on its new court.
func (s *MatchService) Move(ctx context.Context, id int64, courtNumber int) (*domain.Match, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matches.LockByID(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock match", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprint(id))
	}
	if match.Status != domain.MatchUpcoming {
		return nil, domain.ErrConflict("only upcoming matches can change courts")
	}

	if _, err := s.events.LockByID(ctx, tx, match.EventID); err != nil {
		return nil, domain.ErrInternal("lock event", err)
	}

	siblings, err := s.matches.ListByEvent(ctx, tx, match.EventID)
	if err != nil {
		return nil, domain.ErrInternal("list event matches", err)
	}
	slots := make([]rules.MatchSlot, 0, len(siblings))
	for _, m := range siblings {
		court := m.CourtNumber
		if m.ID == id {
			court = courtNumber
		}
		slots = append(slots, rules.MatchSlot{Team1ID: m.Team1ID, Team2ID: m.Team2ID, CourtNumber: court})
	}
	if v := rules.ValidateEventMatches(slots); v != nil {
		return nil, v.AsAppError()
	}

	match.CourtNumber = courtNumber
	if err := s.matches.Update(ctx, tx, match); err != nil {
		return nil, domain.ErrInternal("update match", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return match, nil
}

// ScoreInput holds the completion request fields. Each score string is
// the match as seen from that team, so one is the mirror of the other.
type ScoreInput struct {
	ScoreTeam1 string `json:"score_team1"`
	ScoreTeam2 string `json:"score_team2"`
}

// Complete records the final score and marks the match completed.
func (s *MatchService) Complete(ctx context.Context, id int64, input ScoreInput) (*domain.Match, error) {
	res1, err := score.Parse(input.ScoreTeam1)
	if err != nil {
		return nil, domain.ErrMalformedScore(err.Error())
	}
	res2, err := score.Parse(input.ScoreTeam2)
	if err != nil {
		return nil, domain.ErrMalformedScore(err.Error())
	}
	if !mirrored(res1, res2) {
		return nil, domain.ErrMalformedScore("team scores do not mirror each other")
	}
	if res1.SetsWonA == res1.SetsWonB {
		return nil, domain.ErrMalformedScore("score has no winner")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matches.LockByID(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock match", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprint(id))
	}
	if match.Status != domain.MatchUpcoming {
		return nil, domain.ErrConflict("match is not upcoming")
	}

	match.Status = domain.MatchCompleted
	match.ScoreTeam1 = &input.ScoreTeam1
	match.ScoreTeam2 = &input.ScoreTeam2
	if err := s.matches.Update(ctx, tx, match); err != nil {
		return nil, domain.ErrInternal("update match", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return match, nil
}

// Cancel marks an upcoming match cancelled.
func (s *MatchService) Cancel(ctx context.Context, id int64) (*domain.Match, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matches.LockByID(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock match", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprint(id))
	}
	if match.Status != domain.MatchUpcoming {
		return nil, domain.ErrConflict("match is not upcoming")
	}

	match.Status = domain.MatchCancelled
	if err := s.matches.Update(ctx, tx, match); err != nil {
		return nil, domain.ErrInternal("update match", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return match, nil
}

// Delete removes a match while it is still upcoming.
func (s *MatchService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matches.LockByID(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("lock match", err)
	}
	if match == nil {
		return domain.ErrNotFound("match", fmt.Sprint(id))
	}
	if v := rules.ValidateMatchDeletion(match.Status); v != nil {
		return v.AsAppError()
	}

	if err := s.matches.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete match", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

func (s *MatchService) checkTeamsExist(ctx context.Context, tx pgx.Tx, ids ...int64) error {
	locked, err := s.teams.LockByIDs(ctx, tx, ids)
	if err != nil {
		return domain.ErrInternal("lock teams", err)
	}
	if len(locked) != len(ids) {
		return domain.ErrNotFound("team", missingTeamID(locked, ids))
	}
	return nil
}

func mirrored(a, b *score.Result) bool {
	if len(a.Sets) != len(b.Sets) {
		return false
	}
	for i := range a.Sets {
		if a.Sets[i].A != b.Sets[i].B || a.Sets[i].B != b.Sets[i].A {
			return false
		}
	}
	return true
}
