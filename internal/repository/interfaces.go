package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/padelparc/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// AccountRepository provides access to accounts.
type AccountRepository interface {
	// FindByEmail returns an account by email, or nil if not found.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Account, error)

	// FindByID returns an account by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error)

	// Create inserts a new account.
	Create(ctx context.Context, db DBTX, account *domain.Account) error

	// UpdatePassword replaces the password hash and the forced-change flag.
	UpdatePassword(ctx context.Context, db DBTX, id uuid.UUID, hash string, mustChange bool) error
}

// PlayerFilter narrows player lists.
type PlayerFilter struct {
	Company string
	Search  string
	Page    int
	Limit   int
}

// PlayerRepository provides access to players.
type PlayerRepository interface {
	List(ctx context.Context, db DBTX, f PlayerFilter) ([]domain.Player, int, error)
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Player, error)
	FindByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.Player, error)

	// LockByIDs locks the player rows to serialize team-membership checks.
	// Must be called within a transaction.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.Player, error)

	Create(ctx context.Context, db DBTX, p *domain.Player) error
	Update(ctx context.Context, db DBTX, p *domain.Player) error
	Delete(ctx context.Context, db DBTX, id int64) error
}

// TeamFilter narrows team lists.
type TeamFilter struct {
	PoolID  int64
	Company string
	Page    int
	Limit   int
}

// TeamRepository provides access to teams and their pool assignment.
type TeamRepository interface {
	List(ctx context.Context, db DBTX, f TeamFilter) ([]domain.Team, int, error)
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Team, error)
	FindByPlayer(ctx context.Context, db DBTX, playerID int64) (*domain.Team, error)

	// TeamedPlayerIDs reports which of the given players already belong to
	// a team, optionally ignoring one team (for updates).
	TeamedPlayerIDs(ctx context.Context, db DBTX, playerIDs []int64, excludeTeamID int64) (map[int64]bool, error)

	// LockByIDs locks the team rows so a pool-assignment check and the
	// assignment itself see the same state. Must be called within a
	// transaction. Returns only the rows that exist.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.Team, error)

	Create(ctx context.Context, db DBTX, t *domain.Team) error
	Update(ctx context.Context, db DBTX, t *domain.Team) error
	Delete(ctx context.Context, db DBTX, id int64) error

	AssignPool(ctx context.Context, db DBTX, teamIDs []int64, poolID int64) error
	ClearPool(ctx context.Context, db DBTX, poolID int64) error
	ListByPool(ctx context.Context, db DBTX, poolID int64) ([]domain.Team, error)
}

// PoolRepository provides access to pools.
type PoolRepository interface {
	List(ctx context.Context, db DBTX, page, limit int) ([]domain.Pool, int, error)
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Pool, error)
	Create(ctx context.Context, db DBTX, p *domain.Pool) error
	UpdateName(ctx context.Context, db DBTX, id int64, name string) error
	Delete(ctx context.Context, db DBTX, id int64) error
}

// EventFilter narrows event lists.
type EventFilter struct {
	StartDate string
	EndDate   string
	Month     string
	Page      int
	Limit     int
}

// EventRepository provides access to events.
type EventRepository interface {
	List(ctx context.Context, db DBTX, f EventFilter) ([]domain.Event, int, error)
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Event, error)

	// LockByID locks the event row to serialize schedule changes.
	// Must be called within a transaction.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Event, error)

	Create(ctx context.Context, db DBTX, e *domain.Event) error
	Update(ctx context.Context, db DBTX, e *domain.Event) error
	Delete(ctx context.Context, db DBTX, id int64) error
}

// MatchFilter narrows match lists.
type MatchFilter struct {
	EventID  int64
	TeamID   int64
	Status   domain.MatchStatus
	Upcoming bool
	Page     int
	Limit    int
}

// MatchRepository provides access to matches.
type MatchRepository interface {
	List(ctx context.Context, db DBTX, f MatchFilter) ([]domain.Match, int, error)
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Match, error)
	ListByEvent(ctx context.Context, db DBTX, eventID int64) ([]domain.Match, error)

	// LockByID locks the match row so a status check and the state change
	// it guards commit as one unit.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Match, error)
	Create(ctx context.Context, db DBTX, m *domain.Match) error
	Update(ctx context.Context, db DBTX, m *domain.Match) error
	Delete(ctx context.Context, db DBTX, id int64) error

	// ListCompleted returns completed matches with both teams' companies
	// loaded, for the standings aggregation.
	ListCompleted(ctx context.Context, db DBTX) ([]domain.Match, error)

	// ListCompletedByTeam returns a team's completed matches.
	ListCompletedByTeam(ctx context.Context, db DBTX, teamID int64) ([]domain.Match, error)

	// StatusesByTeams returns the statuses of all matches involving any of
	// the given teams; used by the structural mutation guard.
	StatusesByTeams(ctx context.Context, db DBTX, teamIDs []int64) ([]domain.MatchStatus, error)

	// StatusesByEvent returns the statuses of an event's matches.
	StatusesByEvent(ctx context.Context, db DBTX, eventID int64) ([]domain.MatchStatus, error)
}
