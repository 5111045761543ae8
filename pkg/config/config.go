package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

const (
	defaultJWTSecret     = "your-super-secret-key-change-in-production"
	defaultAdminPassword = "admin123"
)

// Config holds all configuration for the API server
type Config struct {
	AppName string `conf:"default:Back Office Invoicing v1.0,env:APP_NAME"`
	Port    string `conf:"default:3000,env:PORT"`

	// Database. DATABASE_URL wins over the individual parts when set.
	DatabaseURL string `conf:"env:DATABASE_URL,noprint"`
	DBHost      string `conf:"default:localhost,env:DB_HOST"`
	DBPort      string `conf:"default:5432,env:DB_PORT"`
	DBUser      string `conf:"default:postgres,env:DB_USER"`
	DBPassword  string `conf:"default:postgres,env:DB_PASSWORD,noprint"`
	DBName      string `conf:"default:backoffice,env:DB_NAME"`
	DBTimeZone  string `conf:"default:UTC,env:DB_TIMEZONE"`

	// Auth
	JWTSecret          string        `conf:"default:your-super-secret-key-change-in-production,env:JWT_SECRET,noprint"`
	TokenTTL           time.Duration `conf:"default:24h,env:TOKEN_TTL"`
	SessionIdleTimeout time.Duration `conf:"default:5m,env:SESSION_IDLE_TIMEOUT"`

	// Seeded administrator, created on first start only.
	AdminUserName string `conf:"default:admin,env:ADMIN_USERNAME"`
	AdminEmail    string `conf:"default:admin@example.com,env:ADMIN_EMAIL"`
	AdminPassword string `conf:"default:admin123,env:ADMIN_PASSWORD,noprint"`

	// Drafts untouched for this long are dropped.
	DraftIdleTimeout time.Duration `conf:"default:30m,env:DRAFT_IDLE_TIMEOUT"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// CORS: comma-separated list of allowed origins
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if help, err := conf.Parse("", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

// ValidateForProduction enforces security requirements when ENVIRONMENT=production.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.JWTSecret == defaultJWTSecret || len(cfg.JWTSecret) < 32 {
		errs = append(errs, fmt.Sprintf(
			"JWT_SECRET must be set to a random value of at least 32 bytes (got %d)",
			len(cfg.JWTSecret),
		))
	}

	if cfg.AdminPassword == defaultAdminPassword {
		errs = append(errs, "ADMIN_PASSWORD must be changed from the default in production")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production")
	}

	if cfg.CORSAllowedOrigins == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
