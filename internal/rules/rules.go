// Package rules holds the pure tournament invariant checks. Every check
// takes a snapshot of the relevant state and returns nil or a Violation
// with a stable code; nothing here touches storage, so the storage layer
// is responsible for evaluating a check and its guarded mutation inside
// one transaction.
package rules

import (
	"fmt"

	"github.com/padelparc/platform/internal/domain"
)

// Violation codes.
const (
	CodeTeamSamePlayer    = "TEAM_SAME_PLAYER"
	CodeTeamCompany       = "TEAM_COMPANY_MISMATCH"
	CodeTeamPlayerTaken   = "TEAM_PLAYER_ALREADY_TEAMED"
	CodePoolSize          = "POOL_SIZE"
	CodePoolTeamAssigned  = "POOL_TEAM_ASSIGNED"
	CodeEventMatchCount   = "EVENT_MATCH_COUNT"
	CodeEventCourtTaken   = "EVENT_DUPLICATE_COURT"
	CodeEventTeamTwice    = "EVENT_TEAM_TWICE"
	CodeCourtRange        = "COURT_OUT_OF_RANGE"
	CodeMatchSameTeam     = "MATCH_SAME_TEAM"
	CodeMutationLocked    = "MUTATION_LOCKED"
	CodeMatchNotDeletable = "MATCH_NOT_DELETABLE"
)

// Violation is a rejected mutation with a stable code.
type Violation struct {
	Code    string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// AsAppError converts the violation to the domain error surfaced to callers.
func (v *Violation) AsAppError() *domain.AppError {
	return domain.ErrInvariant(v.Code, v.Message)
}

func reject(code, format string, args ...any) *Violation {
	return &Violation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidateTeamComposition checks a proposed team of two players for the
// declared company. teamedPlayerIDs holds the IDs of players that already
// belong to another active team.
func ValidateTeamComposition(p1, p2 domain.Player, company string, teamedPlayerIDs map[int64]bool) *Violation {
	if p1.ID == p2.ID {
		return reject(CodeTeamSamePlayer, "a team needs two different players")
	}
	if p1.Company != company {
		return reject(CodeTeamCompany, "player %d belongs to %q, not %q", p1.ID, p1.Company, company)
	}
	if p2.Company != company {
		return reject(CodeTeamCompany, "player %d belongs to %q, not %q", p2.ID, p2.Company, company)
	}
	if teamedPlayerIDs[p1.ID] {
		return reject(CodeTeamPlayerTaken, "player %d is already in a team", p1.ID)
	}
	if teamedPlayerIDs[p2.ID] {
		return reject(CodeTeamPlayerTaken, "player %d is already in a team", p2.ID)
	}
	return nil
}

// ValidatePoolMembership checks a proposed pool assignment: exactly six
// distinct team IDs, none already assigned to a different pool.
// assignedElsewhere holds the IDs of candidate teams with an existing
// pool assignment.
func ValidatePoolMembership(teamIDs []int64, assignedElsewhere map[int64]bool) *Violation {
	seen := make(map[int64]bool, len(teamIDs))
	for _, id := range teamIDs {
		if seen[id] {
			return reject(CodePoolSize, "team %d appears more than once", id)
		}
		seen[id] = true
	}
	if len(seen) != domain.PoolSize {
		return reject(CodePoolSize, "a pool needs exactly %d teams, got %d", domain.PoolSize, len(seen))
	}
	for _, id := range teamIDs {
		if assignedElsewhere[id] {
			return reject(CodePoolTeamAssigned, "team %d is already in a pool", id)
		}
	}
	return nil
}

// MatchSlot is the per-match input of an event's schedule.
type MatchSlot struct {
	Team1ID     int64
	Team2ID     int64
	CourtNumber int
}

// ValidateEventMatches checks an event's schedule: 1 to 3 matches, each
// between two distinct teams on a court within the venue bounds, no
// court used twice, no team playing twice.
func ValidateEventMatches(slots []MatchSlot) *Violation {
	if len(slots) < 1 || len(slots) > 3 {
		return reject(CodeEventMatchCount, "an event hosts 1 to 3 matches, got %d", len(slots))
	}
	courts := make(map[int]bool, len(slots))
	teams := make(map[int64]bool, 2*len(slots))
	for _, slot := range slots {
		if err := domain.ValidateCourtNumber(slot.CourtNumber); err != nil {
			return reject(CodeCourtRange, "%s", err.Error())
		}
		if slot.Team1ID == slot.Team2ID {
			return reject(CodeMatchSameTeam, "team %d cannot play against itself", slot.Team1ID)
		}
		if courts[slot.CourtNumber] {
			return reject(CodeEventCourtTaken, "court %d is scheduled twice", slot.CourtNumber)
		}
		courts[slot.CourtNumber] = true
		for _, id := range []int64{slot.Team1ID, slot.Team2ID} {
			if teams[id] {
				return reject(CodeEventTeamTwice, "team %d plays more than one match", id)
			}
			teams[id] = true
		}
	}
	return nil
}

// ValidateMutationAllowed guards structural edits to a team, pool or
// event: once any related match has been played or cancelled the
// structure is historical and frozen.
func ValidateMutationAllowed(relatedStatuses []domain.MatchStatus) *Violation {
	for _, s := range relatedStatuses {
		if s != domain.MatchUpcoming {
			return reject(CodeMutationLocked, "a related match is already %s", s)
		}
	}
	return nil
}

// ValidateMatchDeletion allows deleting a match only while it is upcoming.
func ValidateMatchDeletion(status domain.MatchStatus) *Violation {
	if status != domain.MatchUpcoming {
		return reject(CodeMatchNotDeletable, "only upcoming matches can be deleted, match is %s", status)
	}
	return nil
}
