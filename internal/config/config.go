package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store kinds accepted in SESSION_STORE.
const (
	StoreBolt   = "bolt"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config aggregates every runtime setting of the attendance client.
type Config struct {
	AppName string
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Watch   WatchConfig
	Context ContextConfig
	Logger  LoggerConfig
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL  string
	BasePath string
	Timeout  time.Duration
}

// SessionConfig selects where the session cookie jar is kept.
type SessionConfig struct {
	Store    string
	Profile  string
	BoltPath string
	TTL      time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type WatchConfig struct {
	Interval time.Duration
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults that talk to a backend on localhost.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName: getString("APP_NAME", "attendancectl"),
		API: APIConfig{
			BaseURL:  getString("API_BASE_URL", "http://localhost:8000"),
			BasePath: getString("API_BASE_PATH", "/api"),
			Timeout:  getDuration("API_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Store:    strings.ToLower(getString("SESSION_STORE", StoreBolt)),
			Profile:  getString("SESSION_PROFILE", "default"),
			BoltPath: getString("SESSION_BOLT_PATH", "./data/session.db"),
			TTL:      getDuration("SESSION_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Watch: WatchConfig{
			Interval: getDuration("WATCH_INTERVAL", 30*time.Second),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "warn"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreBolt, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Session.Store)
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("config: API_BASE_URL must be an http(s) URL, got %q", c.API.BaseURL)
	}
	return nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
