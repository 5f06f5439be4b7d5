package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "JWT_EXPIRES_IN", "DEFAULT_BUDGET", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %s", cfg.JWTExpirationDur)
	}
	if !cfg.DefaultBudget.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected default budget 500, got %s", cfg.DefaultBudget)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	t.Setenv("DEFAULT_BUDGET", "750.50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("invalid duration should fall back to 24h, got %s", cfg.JWTExpirationDur)
	}
	if !cfg.DefaultBudget.Equal(decimal.RequireFromString("750.50")) {
		t.Errorf("expected default budget 750.50, got %s", cfg.DefaultBudget)
	}
}

func TestLoadRejectsBadBudget(t *testing.T) {
	t.Setenv("DEFAULT_BUDGET", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric DEFAULT_BUDGET")
	}
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error in production, got %v", err)
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error with an explicit secret: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:          "8080",
			DBDriver:      DriverPostgres,
			JWTSecret:     "secret",
			DefaultBudget: decimal.NewFromInt(500),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "non_numeric_port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "must be a number"},
		{name: "port_out_of_range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "between 1 and 65535"},
		{name: "unknown_driver", mutate: func(c *Config) { c.DBDriver = "mongo" }, wantErr: "DB_DRIVER"},
		{name: "negative_budget", mutate: func(c *Config) { c.DefaultBudget = decimal.NewFromInt(-1) }, wantErr: "DEFAULT_BUDGET"},
		{name: "empty_secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "dev_secret_in_development", mutate: func(c *Config) { c.JWTSecret = DevJWTSecret }},
		{name: "dev_secret_in_production", mutate: func(c *Config) {
			c.Env = "production"
			c.JWTSecret = DevJWTSecret
		}, wantErr: "JWT_SECRET must be set in production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got, want := cfg.PostgresURL(), "postgres://u:p@h:5432/d?sslmode=disable"; got != want {
		t.Errorf("PostgresURL() = %q, want %q", got, want)
	}

	cfg.DatabaseURL = "postgres://override"
	if got := cfg.PostgresURL(); got != "postgres://override" {
		t.Errorf("DATABASE_URL should win, got %q", got)
	}
}
