package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/repository"
)

// PlayerService handles the player roster.
type PlayerService struct {
	pool    *pgxpool.Pool
	players repository.PlayerRepository
	teams   repository.TeamRepository
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(pool *pgxpool.Pool, players repository.PlayerRepository, teams repository.TeamRepository) *PlayerService {
	return &PlayerService{pool: pool, players: players, teams: teams}
}

// PlayerInput holds the player create/update fields.
type PlayerInput struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Company       string  `json:"company"`
	LicenseNumber string  `json:"license_number"`
	BirthDate     *string `json:"birth_date,omitempty"`
	Email         *string `json:"email,omitempty"`
}

func (in PlayerInput) validate() error {
	if err := domain.ValidatePersonName("first_name", in.FirstName); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePersonName("last_name", in.LastName); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateCompany(in.Company); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateLicenseNumber(in.LicenseNumber); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if in.BirthDate != nil {
		if err := domain.ValidateBirthDate(*in.BirthDate); err != nil {
			return domain.ErrValidation(err.Error())
		}
	}
	if in.Email != nil {
		if err := domain.ValidateEmail(*in.Email); err != nil {
			return domain.ErrValidation(err.Error())
		}
	}
	return nil
}

// List returns a page of players plus the total.
func (s *PlayerService) List(ctx context.Context, f repository.PlayerFilter) ([]domain.Player, int, error) {
	players, total, err := s.players.List(ctx, s.pool, f)
	if err != nil {
		return nil, 0, domain.ErrInternal("list players", err)
	}
	return players, total, nil
}

// Get returns a player by ID.
func (s *PlayerService) Get(ctx context.Context, id int64) (*domain.Player, error) {
	player, err := s.players.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", fmt.Sprint(id))
	}
	return player, nil
}

// Create registers a new player.
func (s *PlayerService) Create(ctx context.Context, input PlayerInput) (*domain.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	player := &domain.Player{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Company:       input.Company,
		LicenseNumber: input.LicenseNumber,
		BirthDate:     input.BirthDate,
		Email:         input.Email,
	}
	if err := s.players.Create(ctx, s.pool, player); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("license number already registered")
		}
		return nil, domain.ErrInternal("create player", err)
	}
	return player, nil
}

// Update modifies a player. The company cannot change while the player
// belongs to a team, since the team's company is derived from it.
func (s *PlayerService) Update(ctx context.Context, id int64, input PlayerInput) (*domain.Player, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	player, err := s.players.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", fmt.Sprint(id))
	}

	if input.Company != player.Company {
		team, err := s.teams.FindByPlayer(ctx, s.pool, id)
		if err != nil {
			return nil, domain.ErrInternal("find team", err)
		}
		if team != nil {
			return nil, domain.ErrConflict("cannot change company while the player belongs to a team")
		}
	}

	player.FirstName = input.FirstName
	player.LastName = input.LastName
	player.Company = input.Company
	player.LicenseNumber = input.LicenseNumber
	player.BirthDate = input.BirthDate
	player.Email = input.Email

	if err := s.players.Update(ctx, s.pool, player); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("license number already registered")
		}
		return nil, domain.ErrInternal("update player", err)
	}
	return player, nil
}

// Delete removes a player. Players who belong to a team must leave it
// first.
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	player, err := s.players.FindByID(ctx, s.pool, id)
	if err != nil {
		return domain.ErrInternal("find player", err)
	}
	if player == nil {
		return domain.ErrNotFound("player", fmt.Sprint(id))
	}

	team, err := s.teams.FindByPlayer(ctx, s.pool, id)
	if err != nil {
		return domain.ErrInternal("find team", err)
	}
	if team != nil {
		return domain.ErrConflict("player belongs to a team")
	}

	if err := s.players.Delete(ctx, s.pool, id); err != nil {
		return domain.ErrInternal("delete player", err)
	}
	return nil
}
