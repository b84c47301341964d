//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelparc/platform/test/integration/testutil"
)

func TestRegister_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"email": "newplayer@acme.fr", "password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token   string `json:"token"`
		Account struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"account"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "newplayer@acme.fr", result.Account.Email)
	assert.Equal(t, "player", result.Account.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterAccount("dup@acme.fr", "securepass123")

	resp := env.POST("/auth/register", map[string]string{
		"email": "dup@acme.fr", "password": "otherpass456",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"email": "short@acme.fr", "password": "tiny",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterAccount("bob@acme.fr", "securepass123")

	resp := env.POST("/auth/login", map[string]string{
		"email": "bob@acme.fr", "password": "wrongpass",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_CREDENTIALS", body.Code)
	assert.Equal(t, float64(4), body.Details["attempts_remaining"])
}

func TestLogin_LocksAfterFiveFailures(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterAccount("locked@acme.fr", "securepass123")

	var last *http.Response
	for i := 0; i < 5; i++ {
		if last != nil {
			last.Body.Close()
		}
		last = env.POST("/auth/login", map[string]string{
			"email": "locked@acme.fr", "password": "wrongpass",
		}, "")
	}
	defer last.Body.Close()

	assert.Equal(t, http.StatusForbidden, last.StatusCode)

	var body struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.Equal(t, "LOCKED_OUT", body.Code)
	assert.Equal(t, "account", body.Details["tier"])
	assert.Equal(t, float64(30), body.Details["minutes_remaining"])

	// Correct password is refused while the account is locked.
	resp := env.POST("/auth/login", map[string]string{
		"email": "locked@acme.fr", "password": "securepass123",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_SuccessResetsFailureCount(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterAccount("resetme@acme.fr", "securepass123")

	for i := 0; i < 3; i++ {
		resp := env.POST("/auth/login", map[string]string{
			"email": "resetme@acme.fr", "password": "wrongpass",
		}, "")
		resp.Body.Close()
	}
	env.Login("resetme@acme.fr", "securepass123")

	resp := env.POST("/auth/login", map[string]string{
		"email": "resetme@acme.fr", "password": "wrongpass",
	}, "")
	defer resp.Body.Close()

	var body struct {
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(4), body.Details["attempts_remaining"])
}

func TestChangePassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := env.RegisterAccount("chg@acme.fr", "securepass123")

	resp := env.POST("/auth/change-password", map[string]string{
		"current_password": "securepass123",
		"new_password":     "evenbetter456",
	}, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	resp = env.POST("/auth/login", map[string]string{
		"email": "chg@acme.fr", "password": "securepass123",
	}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.Login("chg@acme.fr", "evenbetter456")
}

func TestMe_RequiresToken(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.GET("/auth/me")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWrites_RequireAdminRole(t *testing.T) {
	env := testutil.NewTestEnv(t)
	playerToken := env.RegisterAccount("justaplayer@acme.fr", "securepass123")

	resp := env.POST("/players", map[string]string{
		"first_name": "Nina", "last_name": "Durand",
		"company": "Acme", "license_number": "L123456",
	}, playerToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
