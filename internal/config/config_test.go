package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10s", 10 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"900", 900 * time.Second, false},
		{"604800", 7 * 24 * time.Hour, false},
		{`"10s"`, 10 * time.Second, false},
		{"'15m'", 15 * time.Minute, false},
		{" 30 ", 30 * time.Second, false},
		{"", 0, true},
		{"banana", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDuration(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDuration(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_DSN", "postgres://localhost/test")
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.JWT.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", cfg.JWT.AccessTTL())
	}
	if cfg.JWT.RefreshTTL() != 7*24*time.Hour {
		t.Errorf("RefreshTTL = %v, want 168h", cfg.JWT.RefreshTTL())
	}
	if cfg.Hash.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.Hash.BcryptCost)
	}
	if cfg.PG.DisableReturning {
		t.Error("DisableReturning should default to false")
	}
}

func TestLoadExpirationsInSeconds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRATION", "60")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRATION", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.AccessTTL() != time.Minute {
		t.Errorf("AccessTTL = %v, want 1m", cfg.JWT.AccessTTL())
	}
	if cfg.JWT.RefreshTTL() != 2*time.Hour {
		t.Errorf("RefreshTTL = %v, want 2h", cfg.JWT.RefreshTTL())
	}
}

func TestLoadRejectsBadBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject an out-of-range bcrypt cost")
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret")

	if _, err := Load(); err == nil {
		t.Fatal("Load should require PG_DSN")
	}
}
