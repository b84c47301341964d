package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"padelparc"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"padelparc"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"padelparc"`
	PGMaxConns  int    `env:"PG_MAX_CONNS" envDefault:"20"`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTExpiry string `env:"JWT_EXPIRY" envDefault:"24h"`

	// Server
	APIPort    int    `env:"API_PORT" envDefault:"3000"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// Set when the API sits behind a reverse proxy that fills in
	// X-Forwarded-For. Off by default so clients cannot spoof their
	// address out of the lockout tier.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// Login lockout tuning. Both tiers share the same policy.
	LockoutMaxAttempts  int    `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	LockoutWindow       string `env:"LOCKOUT_WINDOW" envDefault:"15m"`
	LockoutLockDuration string `env:"LOCKOUT_LOCK_DURATION" envDefault:"30m"`

	// Ranking
	RankingPointsPerWin int `env:"RANKING_POINTS_PER_WIN" envDefault:"3"`

	// Migrations
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// JWTExpiryDuration parses the configured session lifetime.
func (c *Config) JWTExpiryDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTExpiry)
	if err != nil {
		return 0, fmt.Errorf("parse JWT_EXPIRY: %w", err)
	}
	return d, nil
}

// LockoutDurations parses the configured lockout window and lock duration.
func (c *Config) LockoutDurations() (window, lock time.Duration, err error) {
	window, err = time.ParseDuration(c.LockoutWindow)
	if err != nil {
		return 0, 0, fmt.Errorf("parse LOCKOUT_WINDOW: %w", err)
	}
	lock, err = time.ParseDuration(c.LockoutLockDuration)
	if err != nil {
		return 0, 0, fmt.Errorf("parse LOCKOUT_LOCK_DURATION: %w", err)
	}
	return window, lock, nil
}
