package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Session store kinds
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Web front configuration
	Server ServerConfig

	// Auth backend the web front talks to
	Backend BackendConfig

	// Session storage configuration
	Session SessionConfig

	// Navigation configuration
	Nav NavConfig

	// Development auth API configuration
	AuthAPI AuthAPIConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds the web front listener and cookie settings
type ServerConfig struct {
	Address       string
	SessionSecret string
	SecureCookies bool
}

// BackendConfig holds the auth backend location
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds session store settings
type SessionConfig struct {
	Store         string // memory, sqlite, redis
	DatabaseURL   string
	RedisAddress  string
	IdleTTL       time.Duration
	SweepSchedule string // cron spec, e.g. "@every 5m"
}

// NavConfig holds the navigation policy location
type NavConfig struct {
	PolicyFile string // empty = built-in policy
}

// AuthAPIConfig holds the development auth API settings
type AuthAPIConfig struct {
	Address      string
	DatabaseURL  string
	JWTSecret    string
	AllowOrigins []string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	backendTimeout, err := durationEnv("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	idleTTL, err := durationEnv("SESSION_IDLE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	secureCookies, err := boolEnv("SECURE_COOKIES", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Address:       stringEnv("WEB_ADDRESS", ":3000"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SecureCookies: secureCookies,
		},
		Backend: BackendConfig{
			BaseURL: stringEnv("BACKEND_URL", "http://127.0.0.1:5555"),
			Timeout: backendTimeout,
		},
		Session: SessionConfig{
			Store:         strings.ToLower(stringEnv("SESSION_STORE", StoreMemory)),
			DatabaseURL:   stringEnv("DATABASE_URL", "movers-web.sqlite"),
			RedisAddress:  stringEnv("REDIS_ADDRESS", "localhost:6379"),
			IdleTTL:       idleTTL,
			SweepSchedule: stringEnv("SESSION_SWEEP_SCHEDULE", "@every 5m"),
		},
		Nav: NavConfig{
			PolicyFile: os.Getenv("NAV_POLICY_FILE"),
		},
		AuthAPI: AuthAPIConfig{
			Address:      stringEnv("AUTHAPI_ADDRESS", "127.0.0.1:5555"),
			DatabaseURL:  stringEnv("AUTHAPI_DATABASE_URL", "movers-auth.sqlite"),
			JWTSecret:    os.Getenv("AUTHAPI_JWT_SECRET"),
			AllowOrigins: listEnv("AUTHAPI_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		Logging: LoggingConfig{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("invalid SESSION_STORE %q (want memory, sqlite or redis)", c.Session.Store)
	}

	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}

	if _, err := cron.ParseStandard(c.Session.SweepSchedule); err != nil {
		return fmt.Errorf("invalid SESSION_SWEEP_SCHEDULE: %w", err)
	}

	return nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func listEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
