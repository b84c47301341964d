package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/ranking"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/score"
)

// ResultsService aggregates completed matches into company standings and
// per-player results.
type ResultsService struct {
	pool    *pgxpool.Pool
	players repository.PlayerRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
	cfg     ranking.Config
}

// NewResultsService creates a new ResultsService.
func NewResultsService(
	pool *pgxpool.Pool,
	players repository.PlayerRepository,
	teams repository.TeamRepository,
	matches repository.MatchRepository,
	cfg ranking.Config,
) *ResultsService {
	return &ResultsService{pool: pool, players: players, teams: teams, matches: matches, cfg: cfg}
}

// Rankings computes the company standings over all completed matches.
// Matches whose recorded scores cannot be read are left out rather than
// guessed at.
func (s *ResultsService) Rankings(ctx context.Context) ([]ranking.CompanyStanding, error) {
	matches, err := s.matches.ListCompleted(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list completed matches", err)
	}

	completed := make([]ranking.CompletedMatch, 0, len(matches))
	for _, m := range matches {
		completed = append(completed, ranking.CompletedMatch{
			Company1: m.Team1.Company,
			Company2: m.Team2.Company,
			Score1:   m.ScoreTeam1,
			Score2:   m.ScoreTeam2,
		})
	}
	return ranking.Standings(completed, s.cfg), nil
}

// TeamRecord summarizes one team's completed matches.
type TeamRecord struct {
	Team          *domain.Team   `json:"team"`
	MatchesPlayed int            `json:"matches_played"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	SetsWon       int            `json:"sets_won"`
	SetsLost      int            `json:"sets_lost"`
	Matches       []domain.Match `json:"matches"`
}

// MyResults returns the calling player's team record. The account must
// be linked to a player who belongs to a team.
func (s *ResultsService) MyResults(ctx context.Context, accountID uuid.UUID) (*TeamRecord, error) {
	player, err := s.players.FindByAccount(ctx, s.pool, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", "for account "+accountID.String())
	}

	team, err := s.teams.FindByPlayer(ctx, s.pool, player.ID)
	if err != nil {
		return nil, domain.ErrInternal("find team", err)
	}
	if team == nil {
		return nil, domain.ErrNotFound("team", "for player "+fmt.Sprint(player.ID))
	}

	return s.TeamResults(ctx, team)
}

// TeamResults computes a team's record from its completed matches.
func (s *ResultsService) TeamResults(ctx context.Context, team *domain.Team) (*TeamRecord, error) {
	matches, err := s.matches.ListCompletedByTeam(ctx, s.pool, team.ID)
	if err != nil {
		return nil, domain.ErrInternal("list team matches", err)
	}

	rec := &TeamRecord{Team: team, Matches: matches}
	for _, m := range matches {
		raw := m.ScoreTeam1
		if m.Team2ID == team.ID {
			raw = m.ScoreTeam2
		}
		if raw == nil {
			continue
		}
		res, err := score.Parse(*raw)
		if err != nil {
			continue
		}

		rec.MatchesPlayed++
		rec.SetsWon += res.SetsWonA
		rec.SetsLost += res.SetsWonB
		if res.SetsWonA > res.SetsWonB {
			rec.Wins++
		} else {
			rec.Losses++
		}
	}
	return rec, nil
}
