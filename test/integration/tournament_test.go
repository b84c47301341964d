//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelparc/platform/test/integration/testutil"
)

func TestPlayerCRUD(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	id := env.CreatePlayer(admin, "Nina", "Durand", "Acme", "L100001")

	resp := env.AuthGET(fmt.Sprintf("/players/%d", id), admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var player struct {
		FirstName     string `json:"first_name"`
		Company       string `json:"company"`
		LicenseNumber string `json:"license_number"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&player))
	assert.Equal(t, "Nina", player.FirstName)
	assert.Equal(t, "Acme", player.Company)

	upd := env.PUT(fmt.Sprintf("/players/%d", id), map[string]string{
		"first_name": "Nina", "last_name": "Martin",
		"company": "Acme", "license_number": "L100001",
	}, admin)
	upd.Body.Close()
	assert.Equal(t, http.StatusOK, upd.StatusCode)

	del := env.DELETE(fmt.Sprintf("/players/%d", id), admin)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
}

func TestPlayer_DuplicateLicense(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	env.CreatePlayer(admin, "Nina", "Durand", "Acme", "L100001")
	resp := env.POST("/players", map[string]string{
		"first_name": "Paul", "last_name": "Roux",
		"company": "Globex", "license_number": "L100001",
	}, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTeam_CrossCompanyRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	p1 := env.CreatePlayer(admin, "Nina", "Durand", "Acme", "L100001")
	p2 := env.CreatePlayer(admin, "Paul", "Roux", "Globex", "L100002")

	resp := env.POST("/teams", map[string]int64{
		"player1_id": p1, "player2_id": p2,
	}, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTeam_PlayerAlreadyTeamedRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	p1 := env.CreatePlayer(admin, "Nina", "Durand", "Acme", "L100001")
	p2 := env.CreatePlayer(admin, "Paul", "Roux", "Acme", "L100002")
	p3 := env.CreatePlayer(admin, "Lea", "Petit", "Acme", "L100003")
	env.CreateTeam(admin, p1, p2)

	resp := env.POST("/teams", map[string]int64{
		"player1_id": p2, "player2_id": p3,
	}, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTeam_SamePlayerTwiceRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")
	p1 := env.CreatePlayer(admin, "Nina", "Durand", "Acme", "L100001")

	resp := env.POST("/teams", map[string]int64{
		"player1_id": p1, "player2_id": p1,
	}, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPool_RequiresExactlySixTeams(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	teams := make([]int64, 0, 6)
	for i := 1; i <= 6; i++ {
		teams = append(teams, env.CompanyTeam(admin, fmt.Sprintf("Corp%d", i), i))
	}

	short := env.POST("/pools", map[string]any{
		"name": "Pool A", "team_ids": teams[:5],
	}, admin)
	short.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, short.StatusCode)

	resp := env.POST("/pools", map[string]any{
		"name": "Pool A", "team_ids": teams,
	}, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var pool struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pool))

	// Teams already in a pool cannot join another one.
	more := make([]int64, 0, 6)
	more = append(more, teams[0])
	for i := 7; i <= 11; i++ {
		more = append(more, env.CompanyTeam(admin, fmt.Sprintf("Corp%d", i), i))
	}
	again := env.POST("/pools", map[string]any{
		"name": "Pool B", "team_ids": more,
	}, admin)
	again.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, again.StatusCode)
}

func TestPool_RenameFrozenOnceMatchPlayed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	teams := make([]int64, 0, 6)
	for i := 1; i <= 6; i++ {
		teams = append(teams, env.CompanyTeam(admin, fmt.Sprintf("Corp%d", i), i))
	}
	resp := env.POST("/pools", map[string]any{
		"name": "Pool A", "team_ids": teams,
	}, admin)
	var pool struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pool))
	resp.Body.Close()

	ok := env.PUT(fmt.Sprintf("/pools/%d", pool.ID), map[string]string{"name": "Pool B"}, admin)
	ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	ev := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": teams[0], "team2_id": teams[1], "court_number": 1},
		},
	}, admin)
	var event struct {
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(ev.Body).Decode(&event))
	ev.Body.Close()

	done := env.PUT(fmt.Sprintf("/matches/%d/score", event.Matches[0].ID), map[string]string{
		"score_team1": "6-0, 6-0", "score_team2": "0-6, 0-6",
	}, admin)
	done.Body.Close()
	require.Equal(t, http.StatusOK, done.StatusCode)

	frozen := env.PUT(fmt.Sprintf("/pools/%d", pool.ID), map[string]string{"name": "Pool C"}, admin)
	defer frozen.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, frozen.StatusCode)
}

func TestEvent_SlateValidation(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)
	t3 := env.CompanyTeam(admin, "Initech", 3)

	// Same court twice in one event is rejected.
	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
			{"team1_id": t2, "team2_id": t3, "court_number": 1},
		},
	}, admin)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Same team in two matches of one event is rejected.
	resp = env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
			{"team1_id": t1, "team2_id": t3, "court_number": 2},
		},
	}, admin)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var event struct {
		ID      int64  `json:"id"`
		Date    string `json:"event_date"`
		Matches []struct {
			Status string `json:"status"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	assert.Equal(t, "2030-06-15", event.Date)
	require.Len(t, event.Matches, 1)
	assert.Equal(t, "upcoming", event.Matches[0].Status)
}

func TestEvent_PastDateRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2020-01-01", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatch_CompleteAndRankings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	var event struct {
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()
	require.Len(t, event.Matches, 1)
	matchID := event.Matches[0].ID

	// Mismatched score pair is rejected.
	bad := env.PUT(fmt.Sprintf("/matches/%d/score", matchID), map[string]string{
		"score_team1": "6-4, 6-2", "score_team2": "6-4, 6-2",
	}, admin)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	ok := env.PUT(fmt.Sprintf("/matches/%d/score", matchID), map[string]string{
		"score_team1": "6-4, 6-2", "score_team2": "4-6, 2-6",
	}, admin)
	defer ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	var match struct {
		Status     string `json:"status"`
		ScoreTeam1 string `json:"score_team1"`
	}
	require.NoError(t, json.NewDecoder(ok.Body).Decode(&match))
	assert.Equal(t, "completed", match.Status)
	assert.Equal(t, "6-4, 6-2", match.ScoreTeam1)

	// Acme takes the win in the company rankings.
	rk := env.AuthGET("/rankings", admin)
	defer rk.Body.Close()
	require.Equal(t, http.StatusOK, rk.StatusCode)

	var body struct {
		Rankings []struct {
			Company string `json:"company"`
			Points  int    `json:"points"`
			Wins    int    `json:"wins"`
		} `json:"rankings"`
	}
	require.NoError(t, json.NewDecoder(rk.Body).Decode(&body))
	require.NotEmpty(t, body.Rankings)
	assert.Equal(t, "Acme", body.Rankings[0].Company)
	assert.Equal(t, 3, body.Rankings[0].Points)
	assert.Equal(t, 1, body.Rankings[0].Wins)
}

func TestMatch_ConcurrentCompleteAndCancelSerialize(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	var event struct {
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()
	matchID := event.Matches[0].ID

	// The match row is locked for the status check, so exactly one of the
	// two racing state changes wins and the other sees a conflict.
	statuses := make(chan int, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r := env.PUT(fmt.Sprintf("/matches/%d/score", matchID), map[string]string{
			"score_team1": "6-3, 6-3", "score_team2": "3-6, 3-6",
		}, admin)
		r.Body.Close()
		statuses <- r.StatusCode
	}()
	go func() {
		defer wg.Done()
		r := env.PUT(fmt.Sprintf("/matches/%d/cancel", matchID), nil, admin)
		r.Body.Close()
		statuses <- r.StatusCode
	}()
	wg.Wait()
	close(statuses)

	got := []int{}
	for s := range statuses {
		got = append(got, s)
	}
	sort.Ints(got)
	assert.Equal(t, []int{http.StatusOK, http.StatusConflict}, got)

	// The surviving state is whichever write won, never a mix.
	check := env.AuthGET(fmt.Sprintf("/matches/%d", matchID), admin)
	defer check.Body.Close()
	var match struct {
		Status     string  `json:"status"`
		ScoreTeam1 *string `json:"score_team1"`
	}
	require.NoError(t, json.NewDecoder(check.Body).Decode(&match))
	if match.Status == "completed" {
		require.NotNil(t, match.ScoreTeam1)
	} else {
		assert.Equal(t, "cancelled", match.Status)
		assert.Nil(t, match.ScoreTeam1)
	}
}

func TestMatch_ListUpcomingFilter(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)
	t3 := env.CompanyTeam(admin, "Initech", 3)
	t4 := env.CompanyTeam(admin, "Umbrella", 4)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
			{"team1_id": t3, "team2_id": t4, "court_number": 2},
		},
	}, admin)
	var event struct {
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()

	done := env.PUT(fmt.Sprintf("/matches/%d/score", event.Matches[0].ID), map[string]string{
		"score_team1": "6-2, 6-2", "score_team2": "2-6, 2-6",
	}, admin)
	done.Body.Close()
	require.Equal(t, http.StatusOK, done.StatusCode)

	list := env.AuthGET("/matches?upcoming=true", admin)
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)

	var body struct {
		Items []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, event.Matches[1].ID, body.Items[0].ID)
	assert.Equal(t, "upcoming", body.Items[0].Status)
}

func TestMatch_CompletedBlocksTeamDeletion(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	var event struct {
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()
	matchID := event.Matches[0].ID

	done := env.PUT(fmt.Sprintf("/matches/%d/score", matchID), map[string]string{
		"score_team1": "6-0, 6-0", "score_team2": "0-6, 0-6",
	}, admin)
	done.Body.Close()
	require.Equal(t, http.StatusOK, done.StatusCode)

	del := env.DELETE(fmt.Sprintf("/teams/%d", t1), admin)
	defer del.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, del.StatusCode)
}

func TestEvent_DeletionFrozenOnceMatchCancelled(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	var event struct {
		ID      int64 `json:"id"`
		Matches []struct {
			ID int64 `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()

	cancel := env.PUT(fmt.Sprintf("/matches/%d/cancel", event.Matches[0].ID), nil, admin)
	cancel.Body.Close()
	require.Equal(t, http.StatusOK, cancel.StatusCode)

	// A cancelled match is history: the event can no longer be removed.
	del := env.DELETE(fmt.Sprintf("/events/%d", event.ID), admin)
	defer del.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, del.StatusCode)
}

func TestEvent_DeletableWhileAllMatchesUpcoming(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.CreateAdmin("admin@padelparc.fr", "adminpass123")

	t1 := env.CompanyTeam(admin, "Acme", 1)
	t2 := env.CompanyTeam(admin, "Globex", 2)

	resp := env.POST("/events", map[string]any{
		"event_date": "2030-06-15", "event_time": "18:30",
		"matches": []map[string]any{
			{"team1_id": t1, "team2_id": t2, "court_number": 1},
		},
	}, admin)
	var event struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	resp.Body.Close()

	del := env.DELETE(fmt.Sprintf("/events/%d", event.ID), admin)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
}
