package config

import (
	"strings"
	"testing"
)

func TestDSN_prefersDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db:5432/x", DBHost: "ignored"}
	if got := cfg.DSN(); got != "postgres://u:p@db:5432/x" {
		t.Errorf("unexpected DSN: %q", got)
	}
}

func TestDSN_fromParts(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBTimeZone: "UTC"}
	got := cfg.DSN()
	for _, want := range []string{"host=db", "user=u", "dbname=n", "port=5432", "TimeZone=UTC"} {
		if !strings.Contains(got, want) {
			t.Errorf("DSN %q missing %q", got, want)
		}
	}
}

func TestValidateForProduction_skipsOtherEnvironments(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, JWTSecret: defaultJWTSecret, LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidateForProduction_rejectsDefaults(t *testing.T) {
	cfg := &Config{
		Environment:        EnvProduction,
		JWTSecret:          defaultJWTSecret,
		AdminPassword:      defaultAdminPassword,
		LogLevel:           "debug",
		CORSAllowedOrigins: "*",
	}
	err := ValidateForProduction(cfg)
	if err == nil {
		t.Fatal("expected error for default production config")
	}
	for _, want := range []string{"JWT_SECRET", "ADMIN_PASSWORD", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidateForProduction_accepts(t *testing.T) {
	cfg := &Config{
		Environment:        EnvProduction,
		JWTSecret:          strings.Repeat("k", 40),
		LogLevel:           "info",
		CORSAllowedOrigins: "https://console.example.com",
	}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
