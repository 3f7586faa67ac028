package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/crypto/bcrypt"
)

// durationSeconds parses env as time.Duration: "10s", "5m" or bare number = seconds (e.g. "900" -> 15m).
// Bare-number support matters because token expirations are commonly provided in seconds.
type durationSeconds time.Duration

// SetValue implements cleanenv's Setter interface.
func (d *durationSeconds) SetValue(data string) error {
	v, err := parseDuration(data)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	// Strip optional surrounding quotes: "10s" or '10s'
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Bare number first (e.g. JWT_ACCESS_TOKEN_EXPIRATION=900); "10s" falls through to ParseDuration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	PG   PGConfig
	JWT  JWTConfig
	Hash HashConfig
}

type AppConfig struct {
	Env     string `env:"APP_ENV" env-default:"dev"`
	Version string `env:"VERSION" env-default:"dev"`
}

type HTTPConfig struct {
	Port string `env:"HTTP_PORT" env-default:"8080"`

	// Value: "10s", "5m" or a number of seconds without suffix (e.g. 10).
	ReadTimeout  durationSeconds `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout durationSeconds `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  durationSeconds `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type PGConfig struct {
	DSN string `env:"PG_DSN" env-required:"true"`

	// DisableReturning marks the storage engine as unable to return the
	// affected row from insert/update/delete statements. Repositories then
	// fall back to a write-then-read pattern.
	DisableReturning bool `env:"PG_DISABLE_RETURNING" env-default:"false"`
}

// JWTConfig carries independent secrets and lifetimes for the access and
// refresh tokens. Expirations accept "15m" style or a bare number of seconds.
type JWTConfig struct {
	AccessSecret      string          `env:"JWT_ACCESS_TOKEN_SECRET" env-required:"true"`
	AccessExpiration  durationSeconds `env:"JWT_ACCESS_TOKEN_EXPIRATION" env-default:"900"`
	RefreshSecret     string          `env:"JWT_REFRESH_TOKEN_SECRET" env-required:"true"`
	RefreshExpiration durationSeconds `env:"JWT_REFRESH_TOKEN_EXPIRATION" env-default:"604800"`
}

type HashConfig struct {
	// BcryptCost is the bcrypt work factor used for passwords and refresh tokens.
	BcryptCost int `env:"BCRYPT_COST" env-default:"10"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.JWT.AccessExpiration.Duration() <= 0 || cfg.JWT.RefreshExpiration.Duration() <= 0 {
		return Config{}, fmt.Errorf("token expirations must be positive")
	}
	if cfg.Hash.BcryptCost < bcrypt.MinCost || cfg.Hash.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return cfg, nil
}

func (c JWTConfig) AccessTTL() time.Duration  { return c.AccessExpiration.Duration() }
func (c JWTConfig) RefreshTTL() time.Duration { return c.RefreshExpiration.Duration() }
