// Package config loads the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"taskhub_backend/internal/feature/subscription/adapters/stripe"
	"taskhub_backend/internal/platform/db"
	"taskhub_backend/internal/platform/redis"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// devSecret is only ever used outside production when JWT_SECRET_KEY is unset.
	devSecret = "taskhub-development-secret"
)

// JWT configures the credential codec.
type JWT struct {
	SecretKey string        `env:"JWT_SECRET_KEY"`
	Algorithm string        `env:"JWT_ALGORITHM" env-default:"HS256"`
	TTL       time.Duration `env:"JWT_TTL" env-default:"24h"`
}

// Config is the whole process configuration. It is loaded once and never mutated.
type Config struct {
	AppEnv         string   `env:"APP_ENV" env-default:"development"`
	LogLevel       string   `env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr       string   `env:"HTTP_ADDR" env-default:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	PasswordCost    int           `env:"BCRYPT_COST" env-default:"10"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" env-default:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" env-default:"1m"`

	// EnforceEndDate makes entitlement also require the subscription end date to be in the future.
	EnforceEndDate bool `env:"ENTITLEMENT_ENFORCE_END_DATE" env-default:"true"`

	JWT    JWT
	DB     db.Config
	Redis  redis.Config
	Stripe stripe.Config
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET_KEY must be set in production")
		}
		slog.Warn("JWT_SECRET_KEY is not set. Using a development secret; set a strong secret in production.")
		c.JWT.SecretKey = devSecret
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", c.LoginRateLimit)
	}
	if c.LoginRateWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive, got %s", c.LoginRateWindow)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// SlogLevel parses LOG_LEVEL, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// DefaultOrigin is the first allowed origin; it builds checkout return URLs
// for requests without an Origin header.
func (c *Config) DefaultOrigin() string {
	if len(c.AllowedOrigins) == 0 {
		return ""
	}
	return c.AllowedOrigins[0]
}
