package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidScores(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sets     []Set
		setsWonA int
		setsWonB int
		gamesA   int
		gamesB   int
	}{
		{
			name:     "straight sets win",
			raw:      "6-4, 6-3",
			sets:     []Set{{6, 4}, {6, 3}},
			setsWonA: 2, setsWonB: 0,
			gamesA: 12, gamesB: 7,
		},
		{
			name:     "three set win with tie-break",
			raw:      "7-6, 4-6, 7-5",
			sets:     []Set{{7, 6}, {4, 6}, {7, 5}},
			setsWonA: 2, setsWonB: 1,
			gamesA: 18, gamesB: 17,
		},
		{
			name:     "no surrounding spaces",
			raw:      "6-0,6-1",
			sets:     []Set{{6, 0}, {6, 1}},
			setsWonA: 2, setsWonB: 0,
			gamesA: 12, gamesB: 1,
		},
		{
			name:     "losing side perspective",
			raw:      "4-6, 5-7",
			sets:     []Set{{4, 6}, {5, 7}},
			setsWonA: 0, setsWonB: 2,
			gamesA: 9, gamesB: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.sets, res.Sets)
			assert.Equal(t, tt.setsWonA, res.SetsWonA)
			assert.Equal(t, tt.setsWonB, res.SetsWonB)
			assert.Equal(t, tt.gamesA, res.GamesA)
			assert.Equal(t, tt.gamesB, res.GamesB)
		})
	}
}

func TestParseRejectsInvalidScores(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"single set", "6-4"},
		{"four sets", "6-4, 6-4, 6-4, 6-4"},
		{"empty", ""},
		{"set beyond tie-break", "8-6, 6-4"},
		{"no valid set ends 6-5", "6-5, 6-4"},
		{"unfinished set", "5-4, 6-4"},
		{"seven five only after twelve games", "7-4, 6-4"},
		{"tie at six", "6-6, 6-4"},
		{"garbage segment", "six-four, 6-3"},
		{"missing side", "6-, 6-3"},
		{"negative games", "6--1, 6-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
		})
	}
}
