package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string
	Env  string

	APIBaseURL string
	APITimeout time.Duration

	SessionBackend string
	RedisURL       string
	RedisPass      string
	RedisDB        int

	JWTSecret   string
	SessionTTL  time.Duration
	RememberTTL time.Duration

	CORSOrigins       []string
	WithdrawRateLimit int
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           fallback(os.Getenv("PORT"), "8080"),
		Env:            fallback(os.Getenv("ENV"), "development"),
		APIBaseURL:     strings.TrimRight(fallback(os.Getenv("API_BASE_URL"), "https://bcibizz.pt/api"), "/"),
		SessionBackend: fallback(os.Getenv("SESSION_BACKEND"), SessionBackendRedis),
		RedisURL:       fallback(os.Getenv("REDIS_URL"), "localhost:6379"),
		RedisPass:      strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	// 0 keeps upstream calls without a client-side deadline.
	cfg.APITimeout = time.Duration(intOr(os.Getenv("API_TIMEOUT_SECONDS"), 0)) * time.Second
	cfg.RedisDB = intOr(os.Getenv("REDIS_DB"), 0)
	cfg.SessionTTL = time.Duration(positiveOr(os.Getenv("JWT_TTL_HOURS"), 24)) * time.Hour
	cfg.RememberTTL = time.Duration(positiveOr(os.Getenv("REMEMBER_TTL_DAYS"), 30)) * 24 * time.Hour
	cfg.WithdrawRateLimit = positiveOr(os.Getenv("WITHDRAW_RATE_LIMIT"), 10)

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.SessionBackend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intOr(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func positiveOr(value string, def int) int {
	n := intOr(value, def)
	if n == 0 {
		return def
	}
	return n
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
