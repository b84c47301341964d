// Package ranking folds completed matches into the per-company standings
// table. Matches with missing, malformed or mutually inconsistent scores
// are skipped rather than failing the whole report.
package ranking

import (
	"sort"

	"github.com/padelparc/platform/internal/score"
)

// Config holds the business constants of the ranking.
type Config struct {
	PointsPerWin int
}

// DefaultConfig returns the standard scoring: 3 points per match win,
// ties broken on sets won.
func DefaultConfig() Config {
	return Config{PointsPerWin: 3}
}

// CompletedMatch is the aggregator's input: the two companies and the
// two sides' score strings, each from its own team's perspective.
type CompletedMatch struct {
	Company1 string
	Company2 string
	Score1   *string
	Score2   *string
}

// CompanyStanding is one row of the standings table.
type CompanyStanding struct {
	Position      int    `json:"position"`
	Company       string `json:"company"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Points        int    `json:"points"`
	SetsWon       int    `json:"sets_won"`
	SetsLost      int    `json:"sets_lost"`
}

// Standings aggregates completed matches into a ranked table, sorted by
// points descending with ties broken by sets won, positions 1-based.
func Standings(matches []CompletedMatch, cfg Config) []CompanyStanding {
	if cfg.PointsPerWin == 0 {
		cfg = DefaultConfig()
	}

	stats := make(map[string]*CompanyStanding)
	entry := func(company string) *CompanyStanding {
		s, ok := stats[company]
		if !ok {
			s = &CompanyStanding{Company: company}
			stats[company] = s
		}
		return s
	}

	for _, m := range matches {
		sets1, sets2, ok := resolveSets(m)
		if !ok {
			continue
		}

		s1 := entry(m.Company1)
		s2 := entry(m.Company2)

		s1.MatchesPlayed++
		s2.MatchesPlayed++
		s1.SetsWon += sets1
		s1.SetsLost += sets2
		s2.SetsWon += sets2
		s2.SetsLost += sets1

		if sets1 > sets2 {
			s1.Wins++
			s1.Points += cfg.PointsPerWin
			s2.Losses++
		} else {
			s2.Wins++
			s2.Points += cfg.PointsPerWin
			s1.Losses++
		}
	}

	table := make([]CompanyStanding, 0, len(stats))
	for _, s := range stats {
		table = append(table, *s)
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].SetsWon != table[j].SetsWon {
			return table[i].SetsWon > table[j].SetsWon
		}
		return table[i].Company < table[j].Company
	})

	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

// resolveSets parses both score strings and returns the sets won per
// side from team 1's perspective. A match is counted only when both
// scores are present, parseable, agree on the set count, and produce a
// strict set majority for one side.
func resolveSets(m CompletedMatch) (sets1, sets2 int, ok bool) {
	if m.Score1 == nil || m.Score2 == nil {
		return 0, 0, false
	}
	r1, err := score.Parse(*m.Score1)
	if err != nil {
		return 0, 0, false
	}
	r2, err := score.Parse(*m.Score2)
	if err != nil {
		return 0, 0, false
	}
	if len(r1.Sets) != len(r2.Sets) {
		return 0, 0, false
	}
	if r1.SetsWonA == r1.SetsWonB {
		return 0, 0, false
	}
	return r1.SetsWonA, r1.SetsWonB, true
}
