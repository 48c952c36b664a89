package config

import (
	"os"
	"strconv"
	"time"

	"rbi-data/internal/database"
)

// Config rbi-data (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  database.Config
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Auth      AuthConfig
	PSGC      PSGCConfig
	RateLimit RateLimitConfig
}

// AuthConfig JWT and password-reset settings.
type AuthConfig struct {
	JWTSecret    string        // HS256 signing key
	TokenTTL     time.Duration // access token lifetime
	ResetCodeTTL time.Duration // forgot-password code lifetime
}

// PSGCConfig upstream PSA endpoint for reference-data sync.
type PSGCConfig struct {
	BaseURL string // PSGC publication API base URL
	Timeout time.Duration
}

// RateLimitConfig bounded-window throttling for auth endpoints.
type RateLimitConfig struct {
	Window    time.Duration
	Threshold int // max attempts per window per client
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if the DB is unavailable, rbi-data falls
	// back to the seeded in-memory PSGC reference so lookups still answer.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "rbi")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "dev-secret-change-me")
	cfg.Auth.TokenTTL = parseDuration(getEnv("JWT_TOKEN_TTL", "12h"), 12*time.Hour)
	cfg.Auth.ResetCodeTTL = parseDuration(getEnv("RESET_CODE_TTL", "10m"), 10*time.Minute)

	// PSGC sync (PSA publishes quarterly updates)
	cfg.PSGC.BaseURL = getEnv("PSGC_BASE_URL", "https://psgc.gitlab.io/api")
	cfg.PSGC.Timeout = parseDuration(getEnv("PSGC_TIMEOUT", "30s"), 30*time.Second)

	cfg.RateLimit.Window = parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute)
	cfg.RateLimit.Threshold = parseInt(getEnv("RATE_LIMIT_THRESHOLD", "10"), 10)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
