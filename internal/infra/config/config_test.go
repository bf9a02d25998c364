package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "3h")
	t.Setenv("RESET_TOKEN_TTL", "30m")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("PASSWORD_PEPPER", "pepper")
	t.Setenv("JWT_ISSUER", "my-svc")
	t.Setenv("JWT_AUDIENCE", "my-aud")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("AUTH_RATE_WINDOW", "10m")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")
	t.Setenv("ALLOW_CREDENTIALS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 3*time.Hour {
		t.Fatalf("RefreshTokenTTL want 3h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.ResetTokenTTL != 30*time.Minute {
		t.Fatalf("ResetTokenTTL want 30m, got %v", cfg.ResetTokenTTL)
	}
	if cfg.AuthRateLimit != 5 {
		t.Fatalf("AuthRateLimit want 5, got %d", cfg.AuthRateLimit)
	}
	if cfg.AuthRateWindow != 10*time.Minute {
		t.Fatalf("AuthRateWindow want 10m, got %v", cfg.AuthRateWindow)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("default AccessTokenTTL want 1h, got %v", cfg.AccessTokenTTL)
	}
	if cfg.HTTPAddress != ":8080" {
		t.Fatalf("default HTTP_ADDRESS want :8080, got %s", cfg.HTTPAddress)
	}
	if cfg.AuthRateLimit != 10 || cfg.AuthRateWindow != 15*time.Minute {
		t.Fatalf("default auth limits want 10/15m, got %d/%v", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_SECRET, got nil")
	}
}
