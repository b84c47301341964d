package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the lifecycle status of a match.
type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Valid reports whether the status is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchUpcoming, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

// Player is a registered tournament player. The license number is unique
// for the season; the account link is optional.
type Player struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Company       string     `json:"company"`
	LicenseNumber string     `json:"license_number"`
	BirthDate     *string    `json:"birth_date,omitempty"`
	Email         *string    `json:"email,omitempty"`
	AccountID     *uuid.UUID `json:"account_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Team pairs two distinct players from the same company. A team belongs
// to at most one pool.
type Team struct {
	ID        int64     `json:"id"`
	Company   string    `json:"company"`
	Player1ID int64     `json:"player1_id"`
	Player2ID int64     `json:"player2_id"`
	PoolID    *int64    `json:"pool_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relations, nil unless the query joined them.
	Player1 *Player `json:"player1,omitempty"`
	Player2 *Player `json:"player2,omitempty"`
	Pool    *Pool   `json:"pool,omitempty"`
}

// PoolSize is the fixed number of teams in a round-robin pool.
const PoolSize = 6

// Pool is a named grouping of exactly six teams.
type Pool struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Teams []Team `json:"teams,omitempty"`
}

// Event is a scheduled time slot hosting one to three matches on
// distinct courts. Date is YYYY-MM-DD, Time is HH:MM.
type Event struct {
	ID        int64     `json:"id"`
	Date      string    `json:"event_date"`
	Time      string    `json:"event_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Matches []Match `json:"matches,omitempty"`
}

// Court number bounds for a venue.
const (
	MinCourtNumber = 1
	MaxCourtNumber = 10
)

// Match opposes two distinct teams on a court within an event. Score
// strings are set only once the match is completed.
type Match struct {
	ID          int64       `json:"id"`
	EventID     int64       `json:"event_id"`
	Team1ID     int64       `json:"team1_id"`
	Team2ID     int64       `json:"team2_id"`
	CourtNumber int         `json:"court_number"`
	Status      MatchStatus `json:"status"`
	ScoreTeam1  *string     `json:"score_team1,omitempty"`
	ScoreTeam2  *string     `json:"score_team2,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Team1 *Team  `json:"team1,omitempty"`
	Team2 *Team  `json:"team2,omitempty"`
	Event *Event `json:"event,omitempty"`
}
