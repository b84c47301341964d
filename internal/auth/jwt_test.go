package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelparc/platform/internal/domain"
)

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef", 24*time.Hour)
	accountID := uuid.New()

	token, err := mgr.GenerateToken(accountID, "alice@acme.fr", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.Subject)
	assert.Equal(t, "alice@acme.fr", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mgr := NewJWTManager("secret-one-0123456789abcdef", time.Hour)
	other := NewJWTManager("secret-two-0123456789abcdef", time.Hour)

	token, err := mgr.GenerateToken(uuid.New(), "bob@acme.fr", domain.RolePlayer)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef", -time.Minute)

	token, err := mgr.GenerateToken(uuid.New(), "bob@acme.fr", domain.RolePlayer)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef", time.Hour)
	_, err := mgr.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthenticateMiddleware(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef", time.Hour)
	accountID := uuid.New()
	token, err := mgr.GenerateToken(accountID, "alice@acme.fr", domain.RolePlayer)
	require.NoError(t, err)

	var gotSubject string
	handler := Authenticate(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, accountID.String(), gotSubject)
}

func TestRequireRole(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef", time.Hour)

	playerToken, err := mgr.GenerateToken(uuid.New(), "p@acme.fr", domain.RolePlayer)
	require.NoError(t, err)
	adminToken, err := mgr.GenerateToken(uuid.New(), "a@acme.fr", domain.RoleAdmin)
	require.NoError(t, err)

	handler := Authenticate(mgr)(RequireRole(domain.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+playerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
