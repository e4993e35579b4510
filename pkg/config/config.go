package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	LogLevel       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often behind a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Store StoreConfig

	Session SessionConfig

	Redis RedisConfig

	RateLimit RateLimitConfig

	// MenuCacheTTL bounds how long the public menu is served from Redis.
	MenuCacheTTL time.Duration

	// AllowedOrigins is a comma-separated allowlist of origins for the public site
	// and the admin dashboard. A leading "*." label matches one subdomain. Example:
	//   https://bar.example.com,https://*.preview.bar.example.com,http://localhost:5173
	AllowedOrigins []string

	// ListPageSize is the default page size of the admin reservation list.
	ListPageSize int
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type StoreConfig struct {
	// BaseURL of the remote reservation REST API, e.g. https://api.bar.example.com/api
	BaseURL string

	// ServiceToken is used for the public (guest) calls that have no admin session.
	ServiceToken string

	Timeout         time.Duration
	FeedbackTimeout time.Duration
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled      bool
	Prefix       string
	Capacity     int
	RefillTokens int
	RefillEvery  time.Duration
	TTL          time.Duration
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		LogLevel:       env("LOG_LEVEL", "info"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "venue"),
			User:     env("DB_USER", "venue"),
			Password: env("DB_PASSWORD", "venue"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Store: StoreConfig{
			BaseURL:         env("STORE_BASE_URL", "http://localhost:8000/api"),
			ServiceToken:    os.Getenv("STORE_SERVICE_TOKEN"),
			Timeout:         envDuration("STORE_TIMEOUT", 20*time.Second),
			FeedbackTimeout: envDuration("FEEDBACK_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    envDuration("SESSION_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:      envBool("RATE_LIMIT_ENABLED", true),
			Prefix:       env("RATE_LIMIT_PREFIX", "rl:venue"),
			Capacity:     envInt("RATE_LIMIT_CAPACITY", 20),
			RefillTokens: envInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillEvery:  envDuration("RATE_LIMIT_REFILL_EVERY", 3*time.Second),
			TTL:          envDuration("RATE_LIMIT_TTL", 10*time.Minute),
		},
		MenuCacheTTL:   envDuration("MENU_CACHE_TTL", 5*time.Minute),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		ListPageSize:   envInt("LIST_PAGE_SIZE", 10),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

// envDuration accepts Go durations ("90s", "12h").
func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
