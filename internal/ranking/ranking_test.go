package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestStandingsTwoMatchesSplit(t *testing.T) {
	// Acme beats Globex 2-0, then Globex beats Acme 2-1 in a separate match.
	matches := []CompletedMatch{
		{
			Company1: "Acme", Company2: "Globex",
			Score1: ptr("6-4, 6-3"), Score2: ptr("4-6, 3-6"),
		},
		{
			Company1: "Globex", Company2: "Acme",
			Score1: ptr("7-6, 4-6, 7-5"), Score2: ptr("6-7, 6-4, 5-7"),
		},
	}

	table := Standings(matches, DefaultConfig())
	require.Len(t, table, 2)

	byCompany := map[string]CompanyStanding{}
	for _, row := range table {
		byCompany[row.Company] = row
	}

	acme := byCompany["Acme"]
	globex := byCompany["Globex"]

	assert.Equal(t, 2, acme.MatchesPlayed)
	assert.Equal(t, 2, globex.MatchesPlayed)
	assert.Equal(t, 1, acme.Wins)
	assert.Equal(t, 1, acme.Losses)
	assert.Equal(t, 1, globex.Wins)
	assert.Equal(t, 1, globex.Losses)
	assert.Equal(t, 3, acme.Points)
	assert.Equal(t, 3, globex.Points)

	// Acme: 2 + 1 sets won, 0 + 2 lost. Globex: 0 + 2 won, 2 + 1 lost.
	assert.Equal(t, 3, acme.SetsWon)
	assert.Equal(t, 2, acme.SetsLost)
	assert.Equal(t, 2, globex.SetsWon)
	assert.Equal(t, 3, globex.SetsLost)

	// Equal points: sets-won tiebreak puts Acme first.
	assert.Equal(t, 1, table[0].Position)
	assert.Equal(t, "Acme", table[0].Company)
	assert.Equal(t, 2, table[1].Position)
	assert.Equal(t, "Globex", table[1].Company)
}

func TestStandingsSortsByPointsFirst(t *testing.T) {
	matches := []CompletedMatch{
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-4, 6-3"), Score2: ptr("4-6, 3-6")},
		{Company1: "Acme", Company2: "Initech", Score1: ptr("6-2, 6-2"), Score2: ptr("2-6, 2-6")},
		{Company1: "Globex", Company2: "Initech", Score1: ptr("6-1, 6-1"), Score2: ptr("1-6, 1-6")},
	}

	table := Standings(matches, DefaultConfig())
	require.Len(t, table, 3)
	assert.Equal(t, "Acme", table[0].Company)
	assert.Equal(t, 6, table[0].Points)
	assert.Equal(t, "Globex", table[1].Company)
	assert.Equal(t, 3, table[1].Points)
	assert.Equal(t, "Initech", table[2].Company)
	assert.Equal(t, 0, table[2].Points)
	for i, row := range table {
		assert.Equal(t, i+1, row.Position)
	}
}

func TestStandingsSkipsUnusableMatches(t *testing.T) {
	matches := []CompletedMatch{
		// Missing one side's score.
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-4, 6-3"), Score2: nil},
		// Malformed score.
		{Company1: "Acme", Company2: "Globex", Score1: ptr("8-6"), Score2: ptr("6-8")},
		// Set counts disagree between the two sides.
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-4, 6-3"), Score2: ptr("4-6, 3-6, 5-7")},
		// Two-set split has no majority winner.
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-4, 4-6"), Score2: ptr("4-6, 6-4")},
		// The one countable match.
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-0, 6-0"), Score2: ptr("0-6, 0-6")},
	}

	table := Standings(matches, DefaultConfig())
	require.Len(t, table, 2)
	assert.Equal(t, "Acme", table[0].Company)
	assert.Equal(t, 1, table[0].MatchesPlayed)
	assert.Equal(t, 1, table[1].MatchesPlayed)
	assert.Equal(t, 3, table[0].Points)
}

func TestStandingsConfigurablePoints(t *testing.T) {
	matches := []CompletedMatch{
		{Company1: "Acme", Company2: "Globex", Score1: ptr("6-4, 6-3"), Score2: ptr("4-6, 3-6")},
	}

	table := Standings(matches, Config{PointsPerWin: 2})
	require.Len(t, table, 2)
	assert.Equal(t, 2, table[0].Points)
}

func TestStandingsEmptyInput(t *testing.T) {
	assert.Empty(t, Standings(nil, DefaultConfig()))
}
