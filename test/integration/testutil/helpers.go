//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterAccount creates a new player account and returns its token.
func (env *TestEnv) RegisterAccount(email, password string) string {
	env.t.Helper()
	resp := env.POST("/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterAccount: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterAccount: decode: %v", err)
	}
	return result.Token
}

// CreateAdmin inserts an admin account directly and logs it in.
func (env *TestEnv) CreateAdmin(email, password string) string {
	env.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("CreateAdmin: hash: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = env.Pool.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, 'admin', true)`,
		uuid.New(), email, string(hash))
	if err != nil {
		env.t.Fatalf("CreateAdmin: insert: %v", err)
	}

	return env.Login(email, password)
}

// Login authenticates an existing account and returns its token.
func (env *TestEnv) Login(email, password string) string {
	env.t.Helper()
	resp := env.POST("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("Login: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("Login: decode: %v", err)
	}
	return result.Token
}

// CreatePlayer creates a player through the API and returns its ID.
func (env *TestEnv) CreatePlayer(adminToken, firstName, lastName, company, license string) int64 {
	env.t.Helper()
	resp := env.POST("/players", map[string]string{
		"first_name":     firstName,
		"last_name":      lastName,
		"company":        company,
		"license_number": license,
	}, adminToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreatePlayer: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("CreatePlayer: decode: %v", err)
	}
	return result.ID
}

// CreateTeam pairs two players through the API and returns the team ID.
func (env *TestEnv) CreateTeam(adminToken string, player1ID, player2ID int64) int64 {
	env.t.Helper()
	resp := env.POST("/teams", map[string]int64{
		"player1_id": player1ID,
		"player2_id": player2ID,
	}, adminToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreateTeam: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("CreateTeam: decode: %v", err)
	}
	return result.ID
}

// CompanyTeam creates two players of the same company and teams them.
func (env *TestEnv) CompanyTeam(adminToken, company string, seq int) int64 {
	env.t.Helper()
	p1 := env.CreatePlayer(adminToken, "Player", fmt.Sprintf("A%d", seq), company, fmt.Sprintf("L%06d", seq*2))
	p2 := env.CreatePlayer(adminToken, "Player", fmt.Sprintf("B%d", seq), company, fmt.Sprintf("L%06d", seq*2+1))
	return env.CreateTeam(adminToken, p1, p2)
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	return env.request(http.MethodPost, path, body, token)
}

// PUT performs a PUT request with optional auth token.
func (env *TestEnv) PUT(path string, body interface{}, token string) *http.Response {
	return env.request(http.MethodPut, path, body, token)
}

// DELETE performs a DELETE request with optional auth token.
func (env *TestEnv) DELETE(path, token string) *http.Response {
	return env.request(http.MethodDelete, path, nil, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest(http.MethodGet, env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

func (env *TestEnv) request(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
