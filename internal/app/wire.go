package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelparc/platform/internal/auth"
	"github.com/padelparc/platform/internal/domain"
	"github.com/padelparc/platform/internal/handler"
	"github.com/padelparc/platform/internal/lockout"
	"github.com/padelparc/platform/internal/ranking"
	"github.com/padelparc/platform/internal/repository"
	"github.com/padelparc/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool          *pgxpool.Pool
	JWTMgr        *auth.JWTManager
	Logger        *slog.Logger
	LockoutPolicy lockout.Policy
	RankingConfig ranking.Config
	TrustProxy    bool
	CORSOrigin    string
}

// NewRouter assembles the chi.Router with all routes and middleware.
// Reads require a valid token; structural writes require the admin role.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	accountRepo := repository.NewPgAccountRepository()
	playerRepo := repository.NewPgPlayerRepository()
	teamRepo := repository.NewPgTeamRepository()
	poolRepo := repository.NewPgPoolRepository()
	eventRepo := repository.NewPgEventRepository()
	matchRepo := repository.NewPgMatchRepository()

	// Lockout tiers, one store per table
	accountLocks := lockout.NewTracker(
		repository.NewPgLockoutStore(pool, repository.LoginAttemptsTable), deps.LockoutPolicy)
	addressLocks := lockout.NewTracker(
		repository.NewPgLockoutStore(pool, repository.AddressAttemptsTable), deps.LockoutPolicy)

	// Services
	authSvc := service.NewAuthService(pool, accountRepo, playerRepo, accountLocks, addressLocks, jwtMgr, logger)
	playerSvc := service.NewPlayerService(pool, playerRepo, teamRepo)
	teamSvc := service.NewTeamService(pool, playerRepo, teamRepo, matchRepo)
	poolSvc := service.NewPoolService(pool, poolRepo, teamRepo, matchRepo)
	eventSvc := service.NewEventService(pool, eventRepo, teamRepo, matchRepo)
	matchSvc := service.NewMatchService(pool, eventRepo, teamRepo, matchRepo)
	resultsSvc := service.NewResultsService(pool, playerRepo, teamRepo, matchRepo, deps.RankingConfig)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, deps.TrustProxy)
	playerHandler := handler.NewPlayerHandler(playerSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	poolHandler := handler.NewPoolHandler(poolSvc)
	eventHandler := handler.NewEventHandler(eventSvc, matchSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	resultsHandler := handler.NewResultsHandler(resultsSvc, teamSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSOrigin))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.Post("/auth/change-password", authHandler.ChangePassword)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)

		r.Get("/players", playerHandler.List)
		r.Get("/players/{id}", playerHandler.Get)

		r.Get("/teams", teamHandler.List)
		r.Get("/teams/{id}", teamHandler.Get)
		r.Get("/teams/{id}/results", resultsHandler.TeamResults)

		r.Get("/pools", poolHandler.List)
		r.Get("/pools/{id}", poolHandler.Get)

		r.Get("/events", eventHandler.List)
		r.Get("/events/{id}", eventHandler.Get)

		r.Get("/matches", matchHandler.List)
		r.Get("/matches/{id}", matchHandler.Get)

		r.Get("/rankings", resultsHandler.Rankings)
		r.Get("/results/me", resultsHandler.MyResults)

		// Structural writes are admin-only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleAdmin))

			r.Post("/players", playerHandler.Create)
			r.Put("/players/{id}", playerHandler.Update)
			r.Delete("/players/{id}", playerHandler.Delete)

			r.Post("/teams", teamHandler.Create)
			r.Put("/teams/{id}", teamHandler.Update)
			r.Delete("/teams/{id}", teamHandler.Delete)

			r.Post("/pools", poolHandler.Create)
			r.Put("/pools/{id}", poolHandler.Rename)
			r.Delete("/pools/{id}", poolHandler.Delete)

			r.Post("/events", eventHandler.Create)
			r.Put("/events/{id}", eventHandler.Reschedule)
			r.Delete("/events/{id}", eventHandler.Delete)
			r.Post("/events/{id}/matches", eventHandler.AddMatch)

			r.Put("/matches/{id}/court", matchHandler.Move)
			r.Put("/matches/{id}/score", matchHandler.Complete)
			r.Put("/matches/{id}/cancel", matchHandler.Cancel)
			r.Delete("/matches/{id}", matchHandler.Delete)
		})
	})

	return r
}
