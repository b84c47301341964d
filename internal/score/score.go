// Package score parses and validates padel match score strings.
//
// A score string encodes 2 or 3 comma-separated sets from one side's
// perspective, each set as "gamesWon-gamesLost", e.g. "6-4, 3-6, 7-5".
package score

import (
	"fmt"
	"strconv"
	"strings"
)

// Set is one set's game count for each side.
type Set struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Result is a parsed, validated score.
type Result struct {
	Sets     []Set `json:"sets"`
	SetsWonA int   `json:"sets_won_a"`
	SetsWonB int   `json:"sets_won_b"`
	GamesA   int   `json:"games_a"`
	GamesB   int   `json:"games_b"`
}

// Parse parses a raw score string and validates each set against padel
// completion rules: a set ends 6-x with x <= 4, or 7-5 / 7-6 after a
// tie-break.
func Parse(raw string) (*Result, error) {
	segments := strings.Split(raw, ",")
	if len(segments) < 2 || len(segments) > 3 {
		return nil, fmt.Errorf("expected 2 or 3 sets, got %d", len(segments))
	}

	res := &Result{Sets: make([]Set, 0, len(segments))}
	for _, seg := range segments {
		a, b, err := parseSet(strings.TrimSpace(seg))
		if err != nil {
			return nil, err
		}
		if !validSet(a, b) {
			return nil, fmt.Errorf("invalid set score %d-%d", a, b)
		}
		res.Sets = append(res.Sets, Set{A: a, B: b})
		res.GamesA += a
		res.GamesB += b
		if a > b {
			res.SetsWonA++
		} else {
			res.SetsWonB++
		}
	}
	return res, nil
}

func parseSet(seg string) (int, int, error) {
	parts := strings.Split(seg, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("set %q is not in games-games form", seg)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("set %q is not in games-games form", seg)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("set %q is not in games-games form", seg)
	}
	if a < 0 || b < 0 {
		return 0, 0, fmt.Errorf("set %q has negative games", seg)
	}
	return a, b, nil
}

// validSet reports whether a set score is a completed padel set: the
// winner reaches 6 with the loser at 4 or fewer, or wins a tie-break
// set 7-5 or 7-6. A set can never end 6-5 or beyond 7 games.
func validSet(a, b int) bool {
	hi, lo := a, b
	if b > a {
		hi, lo = b, a
	}
	if hi == 6 && lo <= 4 {
		return true
	}
	if hi == 7 && (lo == 5 || lo == 6) {
		return true
	}
	return false
}
