package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/padelparc/platform/internal/auth"
	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/lockout"
	"github.com/padelparc/platform/internal/service"
)

// AuthHandler handles registration, login and account endpoints.
type AuthHandler struct {
	authSvc    *service.AuthService
	trustProxy bool
}

// NewAuthHandler creates a new AuthHandler. With trustProxy set, the
// client address is taken from X-Forwarded-For.
func NewAuthHandler(authSvc *service.AuthService, trustProxy bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, trustProxy: trustProxy}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	result, err := h.authSvc.Register(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	addr := lockout.ClientAddress(r, h.trustProxy)
	result, err := h.authSvc.Login(r.Context(), input, addr)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.ChangePasswordInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	if err := h.authSvc.ChangePassword(r.Context(), accountID, input); err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	account, player, err := h.authSvc.Me(r.Context(), accountID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"player":  player,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is a
// client-side operation acknowledged for symmetry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// accountIDFromContext extracts the authenticated account ID.
func accountIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no auth context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject")
	}
	return id, nil
}
