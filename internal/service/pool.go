package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/rules"
)

// PoolService handles round-robin pools. A pool always holds exactly six
// teams; membership is fixed at creation and checked under row locks.
type PoolService struct {
	pool    *pgxpool.Pool
	pools   repository.PoolRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
}

// NewPoolService creates a new PoolService.
func NewPoolService(
	pool *pgxpool.Pool,
	pools repository.PoolRepository,
	teams repository.TeamRepository,
	matches repository.MatchRepository,
) *PoolService {
	return &PoolService{pool: pool, pools: pools, teams: teams, matches: matches}
}

// PoolInput holds the pool creation fields.
type PoolInput struct {
	Name    string  `json:"name"`
	TeamIDs []int64 `json:"team_ids"`
}

// List returns a page of pools plus the total.
func (s *PoolService) List(ctx context.Context, page, limit int) ([]domain.Pool, int, error) {
	pools, total, err := s.pools.List(ctx, s.pool, page, limit)
	if err != nil {
		return nil, 0, domain.ErrInternal("list pools", err)
	}
	return pools, total, nil
}

// Get returns a pool with its teams loaded.
func (s *PoolService) Get(ctx context.Context, id int64) (*domain.Pool, error) {
	pool, err := s.pools.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find pool", err)
	}
	if pool == nil {
		return nil, domain.ErrNotFound("pool", fmt.Sprint(id))
	}

	teams, err := s.teams.ListByPool(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("list pool teams", err)
	}
	pool.Teams = teams
	return pool, nil
}

// Create forms a new pool from exactly six unassigned teams. The team
// rows stay locked until commit so a team cannot land in two pools.
func (s *PoolService) Create(ctx context.Context, input PoolInput) (*domain.Pool, error) {
	if err := domain.ValidatePoolName(input.Name); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if v := rules.ValidatePoolMembership(input.TeamIDs, nil); v != nil {
		return nil, v.AsAppError()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.teams.LockByIDs(ctx, tx, input.TeamIDs)
	if err != nil {
		return nil, domain.ErrInternal("lock teams", err)
	}
	if len(locked) != len(input.TeamIDs) {
		return nil, domain.ErrNotFound("team", missingTeamID(locked, input.TeamIDs))
	}

	assigned := make(map[int64]bool)
	for _, t := range locked {
		if t.PoolID != nil {
			assigned[t.ID] = true
		}
	}
	if v := rules.ValidatePoolMembership(input.TeamIDs, assigned); v != nil {
		return nil, v.AsAppError()
	}

	pool := &domain.Pool{Name: input.Name}
	if err := s.pools.Create(ctx, tx, pool); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("pool name already in use")
		}
		return nil, domain.ErrInternal("create pool", err)
	}

	if err := s.teams.AssignPool(ctx, tx, input.TeamIDs, pool.ID); err != nil {
		return nil, domain.ErrInternal("assign teams", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return pool, nil
}

// Rename changes a pool's name. Rejected while any of the pool's teams
// has matches that are not upcoming.
func (s *PoolService) Rename(ctx context.Context, id int64, name string) (*domain.Pool, error) {
	if err := domain.ValidatePoolName(name); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.guardPoolTeams(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := s.pools.UpdateName(ctx, tx, id, name); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("pool name already in use")
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return s.Get(ctx, id)
}

// Delete dissolves a pool and unassigns its teams. Rejected while any of
// the pool's teams has matches that are not upcoming.
func (s *PoolService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.guardPoolTeams(ctx, tx, id); err != nil {
		return err
	}

	if err := s.teams.ClearPool(ctx, tx, id); err != nil {
		return domain.ErrInternal("unassign teams", err)
	}
	if err := s.pools.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete pool", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

// guardPoolTeams verifies the pool exists and that none of its teams has
// a match that left the upcoming status.
func (s *PoolService) guardPoolTeams(ctx context.Context, tx pgx.Tx, id int64) error {
	pool, err := s.pools.FindByID(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("find pool", err)
	}
	if pool == nil {
		return domain.ErrNotFound("pool", fmt.Sprint(id))
	}

	teams, err := s.teams.ListByPool(ctx, tx, id)
	if err != nil {
		return domain.ErrInternal("list pool teams", err)
	}
	if len(teams) == 0 {
		return nil
	}

	teamIDs := make([]int64, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}
	statuses, err := s.matches.StatusesByTeams(ctx, tx, teamIDs)
	if err != nil {
		return domain.ErrInternal("match statuses", err)
	}
	if v := rules.ValidateMutationAllowed(statuses); v != nil {
		return v.AsAppError()
	}
	return nil
}

func missingTeamID(found []domain.Team, wanted []int64) string {
	present := make(map[int64]bool, len(found))
	for _, t := range found {
		present[t.ID] = true
	}
	for _, id := range wanted {
		if !present[id] {
			return fmt.Sprint(id)
		}
	}
	return "unknown"
}
