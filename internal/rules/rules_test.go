package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelparc/platform/internal/domain"
)

func player(id int64, company string) domain.Player {
	return domain.Player{ID: id, Company: company}
}

func TestValidateTeamComposition(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   domain.Player
		company  string
		teamed   map[int64]bool
		wantCode string
	}{
		{
			name: "valid team", p1: player(1, "Acme"), p2: player(2, "Acme"),
			company: "Acme",
		},
		{
			name: "same player twice", p1: player(1, "Acme"), p2: player(1, "Acme"),
			company: "Acme", wantCode: CodeTeamSamePlayer,
		},
		{
			name: "first player wrong company", p1: player(1, "Globex"), p2: player(2, "Acme"),
			company: "Acme", wantCode: CodeTeamCompany,
		},
		{
			name: "second player wrong company", p1: player(1, "Acme"), p2: player(2, "Globex"),
			company: "Acme", wantCode: CodeTeamCompany,
		},
		{
			name: "first player already teamed", p1: player(1, "Acme"), p2: player(2, "Acme"),
			company: "Acme", teamed: map[int64]bool{1: true}, wantCode: CodeTeamPlayerTaken,
		},
		{
			name: "second player already teamed", p1: player(1, "Acme"), p2: player(2, "Acme"),
			company: "Acme", teamed: map[int64]bool{2: true}, wantCode: CodeTeamPlayerTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateTeamComposition(tt.p1, tt.p2, tt.company, tt.teamed)
			if tt.wantCode == "" {
				require.Nil(t, v)
			} else {
				require.NotNil(t, v)
				assert.Equal(t, tt.wantCode, v.Code)
			}
		})
	}
}

func TestValidatePoolMembership(t *testing.T) {
	six := []int64{1, 2, 3, 4, 5, 6}

	t.Run("exactly six free teams", func(t *testing.T) {
		require.Nil(t, ValidatePoolMembership(six, nil))
	})

	t.Run("five teams", func(t *testing.T) {
		v := ValidatePoolMembership([]int64{1, 2, 3, 4, 5}, nil)
		require.NotNil(t, v)
		assert.Equal(t, CodePoolSize, v.Code)
	})

	t.Run("seven teams", func(t *testing.T) {
		v := ValidatePoolMembership([]int64{1, 2, 3, 4, 5, 6, 7}, nil)
		require.NotNil(t, v)
		assert.Equal(t, CodePoolSize, v.Code)
	})

	t.Run("duplicate id", func(t *testing.T) {
		v := ValidatePoolMembership([]int64{1, 2, 3, 4, 5, 5}, nil)
		require.NotNil(t, v)
		assert.Equal(t, CodePoolSize, v.Code)
	})

	t.Run("team already in another pool", func(t *testing.T) {
		v := ValidatePoolMembership(six, map[int64]bool{4: true})
		require.NotNil(t, v)
		assert.Equal(t, CodePoolTeamAssigned, v.Code)
	})
}

func TestValidateEventMatches(t *testing.T) {
	t.Run("duplicate court rejected", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{
			{Team1ID: 1, Team2ID: 2, CourtNumber: 1},
			{Team1ID: 3, Team2ID: 4, CourtNumber: 1},
		})
		require.NotNil(t, v)
		assert.Equal(t, CodeEventCourtTaken, v.Code)
	})

	t.Run("team playing twice rejected", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{
			{Team1ID: 1, Team2ID: 2, CourtNumber: 1},
			{Team1ID: 1, Team2ID: 3, CourtNumber: 2},
		})
		require.NotNil(t, v)
		assert.Equal(t, CodeEventTeamTwice, v.Code)
	})

	t.Run("three matches twelve distinct teams accepted", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{
			{Team1ID: 1, Team2ID: 2, CourtNumber: 1},
			{Team1ID: 3, Team2ID: 4, CourtNumber: 2},
			{Team1ID: 5, Team2ID: 6, CourtNumber: 3},
		})
		require.Nil(t, v)
	})

	t.Run("no matches rejected", func(t *testing.T) {
		v := ValidateEventMatches(nil)
		require.NotNil(t, v)
		assert.Equal(t, CodeEventMatchCount, v.Code)
	})

	t.Run("four matches rejected", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{
			{Team1ID: 1, Team2ID: 2, CourtNumber: 1},
			{Team1ID: 3, Team2ID: 4, CourtNumber: 2},
			{Team1ID: 5, Team2ID: 6, CourtNumber: 3},
			{Team1ID: 7, Team2ID: 8, CourtNumber: 4},
		})
		require.NotNil(t, v)
		assert.Equal(t, CodeEventMatchCount, v.Code)
	})

	t.Run("court outside venue rejected", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{{Team1ID: 1, Team2ID: 2, CourtNumber: 11}})
		require.NotNil(t, v)
		assert.Equal(t, CodeCourtRange, v.Code)
	})

	t.Run("team against itself rejected", func(t *testing.T) {
		v := ValidateEventMatches([]MatchSlot{{Team1ID: 1, Team2ID: 1, CourtNumber: 1}})
		require.NotNil(t, v)
		assert.Equal(t, CodeMatchSameTeam, v.Code)
	})
}

func TestValidateMutationAllowed(t *testing.T) {
	t.Run("only upcoming matches", func(t *testing.T) {
		require.Nil(t, ValidateMutationAllowed([]domain.MatchStatus{
			domain.MatchUpcoming, domain.MatchUpcoming,
		}))
	})

	t.Run("no related matches", func(t *testing.T) {
		require.Nil(t, ValidateMutationAllowed(nil))
	})

	t.Run("completed match freezes structure", func(t *testing.T) {
		v := ValidateMutationAllowed([]domain.MatchStatus{domain.MatchUpcoming, domain.MatchCompleted})
		require.NotNil(t, v)
		assert.Equal(t, CodeMutationLocked, v.Code)
	})

	t.Run("cancelled match freezes structure", func(t *testing.T) {
		v := ValidateMutationAllowed([]domain.MatchStatus{domain.MatchCancelled})
		require.NotNil(t, v)
		assert.Equal(t, CodeMutationLocked, v.Code)
	})
}

func TestValidateMatchDeletion(t *testing.T) {
	require.Nil(t, ValidateMatchDeletion(domain.MatchUpcoming))

	v := ValidateMatchDeletion(domain.MatchCompleted)
	require.NotNil(t, v)
	assert.Equal(t, CodeMatchNotDeletable, v.Code)

	v = ValidateMatchDeletion(domain.MatchCancelled)
	require.NotNil(t, v)
	assert.Equal(t, CodeMatchNotDeletable, v.Code)
}
