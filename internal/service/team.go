package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/rules"
)

// TeamService handles team composition. Composition checks run inside a
// transaction with the player rows locked, so two concurrent requests
// cannot both claim the same player.
type TeamService struct {
	pool    *pgxpool.Pool
	players repository.PlayerRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	pool *pgxpool.Pool,
	players repository.PlayerRepository,
	teams repository.TeamRepository,
	matches repository.MatchRepository,
) *TeamService {
	return &TeamService{pool: pool, players: players, teams: teams, matches: matches}
}

// TeamInput holds the team create/update fields.
type TeamInput struct {
	Player1ID int64 `json:"player1_id"`
	Player2ID int64 `json:"player2_id"`
}

// List returns a page of teams plus the total.
func (s *TeamService) List(ctx context.Context, f repository.TeamFilter) ([]domain.Team, int, error) {
	teams, total, err := s.teams.List(ctx, s.pool, f)
	if err != nil {
		return nil, 0, domain.ErrInternal("list teams", err)
	}
	return teams, total, nil
}

// Get returns a team by ID.
func (s *TeamService) Get(ctx context.Context, id int64) (*domain.Team, error) {
	team, err := s.teams.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find team", err)
	}
	if team == nil {
		return nil, domain.ErrNotFound("team", fmt.Sprint(id))
	}
	return team, nil
}

// Create forms a new team from two players.
func (s *TeamService) Create(ctx context.Context, input TeamInput) (*domain.Team, error) {
	if input.Player1ID == input.Player2ID {
		return nil, rules.ValidateTeamComposition(domain.Player{ID: input.Player1ID}, domain.Player{ID: input.Player2ID}, "", nil).AsAppError()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.players.LockByIDs(ctx, tx, []int64{input.Player1ID, input.Player2ID})
	if err != nil {
		return nil, domain.ErrInternal("lock players", err)
	}
	if len(locked) != 2 {
		return nil, domain.ErrNotFound("player", missingPlayerID(locked, input.Player1ID, input.Player2ID))
	}
	p1, p2 := locked[0], locked[1]
	if p1.ID != input.Player1ID {
		p1, p2 = p2, p1
	}

	teamed, err := s.teams.TeamedPlayerIDs(ctx, tx, []int64{p1.ID, p2.ID}, 0)
	if err != nil {
		return nil, domain.ErrInternal("find teamed players", err)
	}

	if v := rules.ValidateTeamComposition(p1, p2, p1.Company, teamed); v != nil {
		return nil, v.AsAppError()
	}

	team := &domain.Team{
		Company:   p1.Company,
		Player1ID: p1.ID,
		Player2ID: p2.ID,
	}
	if err := s.teams.Create(ctx, tx, team); err != nil {
		return nil, domain.ErrInternal("create team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	team.Player1 = &p1
	team.Player2 = &p2
	return team, nil
}

// Update replaces a team's players. Rejected while the team has matches
// that are not upcoming.
func (s *TeamService) Update(ctx context.Context, id int64, input TeamInput) (*domain.Team, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	existing, err := s.teams.FindByID(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("find team", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound("team", fmt.Sprint(id))
	}

	statuses, err := s.matches.StatusesByTeams(ctx, tx, []int64{id})
	if err != nil {
		return nil, domain.ErrInternal("match statuses", err)
	}
	if v := rules.ValidateMutationAllowed(statuses); v != nil {
		return nil, v.AsAppError()
	}

	locked, err := s.players.LockByIDs(ctx, tx, []int64{input.Player1ID, input.Player2ID})
	if err != nil {
		return nil, domain.ErrInternal("lock players", err)
	}
	if len(locked) != 2 {
		return nil, domain.ErrNotFound("player", missingPlayerID(locked, input.Player1ID, input.Player2ID))
	}
	p1, p2 := locked[0], locked[1]
	if p1.ID != input.Player1ID {
		p1, p2 = p2, p1
	}

	teamed, err := s.teams.TeamedPlayerIDs(ctx, tx, []int64{p1.ID, p2.ID}, id)
	if err != nil {
		return nil, domain.ErrInternal("find teamed players", err)
	}

	if v := rules.ValidateTeamComposition(p1, p2, p1.Company, teamed); v != nil {
		return nil, v.AsAppError()
	}

	existing.Company = p1.Company
	existing.Player1ID = p1.ID
	existing.Player2ID = p2.ID
	if err := s.teams.Update(ctx, tx, existing); err != nil {
		return nil, domain.ErrInternal("update team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	existing.Player1 = &p1
	existing.Player2 = &p2
	return existing, nil
}

// Delete removes a team. Rejected while the team has matches that are
// not upcoming, or while it is assigned to a pool.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.teams.LockByIDs(ctx, tx, []int64{id})
	if err != nil {
		return domain.ErrInternal("lock team", err)
	}
	if len(locked) == 0 {
		return domain.ErrNotFound("team", fmt.Sprint(id))
	}
	if locked[0].PoolID != nil {
		return domain.ErrConflict("team is assigned to a pool")
	}

	statuses, err := s.matches.StatusesByTeams(ctx, tx, []int64{id})
	if err != nil {
		return domain.ErrInternal("match statuses", err)
	}
	if v := rules.ValidateMutationAllowed(statuses); v != nil {
		return v.AsAppError()
	}

	if err := s.teams.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

func missingPlayerID(found []domain.Player, wanted ...int64) string {
	present := func(id int64) bool {
		for _, p := range found {
			if p.ID == id {
				return true
			}
		}
		return false
	}
	for _, id := range wanted {
		if !present(id) {
			return fmt.Sprint(id)
		}
	}
	return "unknown"
}
