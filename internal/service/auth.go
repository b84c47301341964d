package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/padelparc/platform/internal/auth"
	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/lockout"
	"github.com/padelparc/platform/internal/repository"
)

// AuthService handles registration, login and password changes. Login is
// guarded by two independent lockout trackers: one keyed by the submitted
// email, one keyed by the caller's network address.
type AuthService struct {
	pool         *pgxpool.Pool
	accounts     repository.AccountRepository
	players      repository.PlayerRepository
	accountLocks *lockout.Tracker
	addressLocks *lockout.Tracker
	jwtMgr       *auth.JWTManager
	logger       *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	pool *pgxpool.Pool,
	accounts repository.AccountRepository,
	players repository.PlayerRepository,
	accountLocks *lockout.Tracker,
	addressLocks *lockout.Tracker,
	jwtMgr *auth.JWTManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		pool:         pool,
		accounts:     accounts,
		players:      players,
		accountLocks: accountLocks,
		addressLocks: addressLocks,
		jwtMgr:       jwtMgr,
		logger:       logger,
	}
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

// Login authenticates an account and returns a JWT. The submitted email
// and the caller's address are tracked independently; five failures
// within the window lock the corresponding key for thirty minutes.
// Failed attempts count against a submitted email even when no such
// account exists.
func (s *AuthService) Login(ctx context.Context, input LoginInput, remoteAddr string) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	addr := lockout.NormalizeAddress(remoteAddr)

	addrState, err := s.addressLocks.Status(ctx, addr)
	if err != nil {
		return nil, domain.ErrInternal("address lockout status", err)
	}
	if addrState.Locked {
		return nil, domain.ErrLockedOut("address", addrState.MinutesRemaining)
	}

	acctState, err := s.accountLocks.Status(ctx, email)
	if err != nil {
		return nil, domain.ErrInternal("account lockout status", err)
	}
	if acctState.Locked {
		return nil, domain.ErrLockedOut("account", acctState.MinutesRemaining)
	}

	account, err := s.accounts.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}

	verified := false
	if account != nil {
		verified = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) == nil
	}
	if !verified {
		return nil, s.recordFailure(ctx, email, addr)
	}

	if !account.IsActive {
		return nil, domain.ErrAccountDisabled()
	}

	// Success clears both counters unconditionally. A reset that does not
	// stick would leave a stale streak that locks the key early, so a
	// failed write is retried once before giving up.
	if err := s.resetCounters(ctx, s.accountLocks, email); err != nil {
		s.logger.Error("reset account lockout", "email", email, "error", err)
	}
	if err := s.resetCounters(ctx, s.addressLocks, addr); err != nil {
		s.logger.Error("reset address lockout", "addr", addr, "error", err)
	}

	token, err := s.jwtMgr.GenerateToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, Account: account}, nil
}

func (s *AuthService) resetCounters(ctx context.Context, tracker *lockout.Tracker, key string) error {
	err := tracker.RecordSuccess(ctx, key)
	if err == nil {
		return nil
	}
	return tracker.RecordSuccess(ctx, key)
}

// recordFailure counts a failed attempt on both tiers and picks the error
// to surface. A tracker write failure never lets the attempt through: the
// caller still gets invalid credentials.
func (s *AuthService) recordFailure(ctx context.Context, email, addr string) error {
	acctDec, acctErr := s.accountLocks.RecordFailure(ctx, email)
	if acctErr != nil {
		s.logger.Error("record account failure", "email", email, "error", acctErr)
	}
	addrDec, addrErr := s.addressLocks.RecordFailure(ctx, addr)
	if addrErr != nil {
		s.logger.Error("record address failure", "addr", addr, "error", addrErr)
	}

	if acctErr == nil && acctDec.Locked {
		return domain.ErrLockedOut("account", acctDec.MinutesRemaining)
	}
	if addrErr == nil && addrDec.Locked {
		return domain.ErrLockedOut("address", addrDec.MinutesRemaining)
	}

	remaining := 0
	if acctErr == nil {
		remaining = acctDec.AttemptsRemaining
	}
	return domain.ErrInvalidCredentials(remaining)
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new player account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	existing, err := s.accounts.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RolePlayer,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, s.pool, account); err != nil {
		return nil, domain.ErrInternal("create account", err)
	}

	token, err := s.jwtMgr.GenerateToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, Account: account}, nil
}

// ChangePasswordInput holds the password change request fields.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password and replaces it.
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, input ChangePasswordInput) error {
	if err := domain.ValidatePassword(input.NewPassword); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if input.NewPassword == input.CurrentPassword {
		return domain.ErrValidation("new password must differ from the current one")
	}

	account, err := s.accounts.FindByID(ctx, s.pool, accountID)
	if err != nil {
		return domain.ErrInternal("find account", err)
	}
	if account == nil {
		return domain.ErrNotFound("account", accountID.String())
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return domain.ErrUnauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrInternal("hash password", err)
	}

	if err := s.accounts.UpdatePassword(ctx, s.pool, accountID, string(hash), false); err != nil {
		return domain.ErrInternal("update password", err)
	}
	return nil
}

// Me returns the account and, when linked, the player profile.
func (s *AuthService) Me(ctx context.Context, accountID uuid.UUID) (*domain.Account, *domain.Player, error) {
	account, err := s.accounts.FindByID(ctx, s.pool, accountID)
	if err != nil {
		return nil, nil, domain.ErrInternal("find account", err)
	}
	if account == nil {
		return nil, nil, domain.ErrNotFound("account", accountID.String())
	}

	player, err := s.players.FindByAccount(ctx, s.pool, accountID)
	if err != nil {
		return nil, nil, domain.ErrInternal("find player", err)
	}
	return account, player, nil
}
