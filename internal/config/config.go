package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultListenAddr = ":8080"
	DefaultTokenTTL   = time.Hour
	DefaultMaxBody    = 1 << 20

	defaultRatePerSecond = 20
	defaultRateBurst     = 40
)

// Config holds process-wide settings. It is loaded once at startup and
// read-only afterwards; the auth pipeline receives its values by injection,
// never by reading the environment again.
type Config struct {
	ListenAddr string

	// TokenSecret signs access tokens. Required.
	TokenSecret string
	// TokenTTL is the default access token lifetime.
	TokenTTL time.Duration
	// BcryptCost tunes password hashing; zero selects the library default.
	BcryptCost int

	// PostgresDSN selects the user store; empty means in-memory.
	PostgresDSN string

	RateLimitPerSecond int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// Load reads configuration from WARDEN_* environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         envOr("WARDEN_LISTEN_ADDR", DefaultListenAddr),
		TokenSecret:        strings.TrimSpace(os.Getenv("WARDEN_AUTH_SECRET")),
		TokenTTL:           DefaultTokenTTL,
		PostgresDSN:        strings.TrimSpace(os.Getenv("WARDEN_PG_DSN")),
		RateLimitPerSecond: defaultRatePerSecond,
		RateLimitBurst:     defaultRateBurst,
		MaxBodyBytes:       DefaultMaxBody,
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("config: WARDEN_AUTH_SECRET is required")
	}

	if raw := strings.TrimSpace(os.Getenv("WARDEN_TOKEN_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("config: invalid WARDEN_TOKEN_TTL %q", raw)
		}
		cfg.TokenTTL = ttl
	}
	var err error
	if cfg.BcryptCost, err = envInt("WARDEN_BCRYPT_COST", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond, err = envInt("WARDEN_RATE_LIMIT_RPS", defaultRatePerSecond); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = envInt("WARDEN_RATE_LIMIT_BURST", defaultRateBurst); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("WARDEN_MAX_BODY_BYTES")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: invalid WARDEN_MAX_BODY_BYTES %q", raw)
		}
		cfg.MaxBodyBytes = n
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return n, nil
}
