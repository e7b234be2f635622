package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "SESSION_STORE", "LOG_LEVEL", "WATCH_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	require.Equal(t, "/api", cfg.API.BasePath)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, StoreBolt, cfg.Session.Store)
	require.Equal(t, "warn", cfg.Logger.Level)
	require.Equal(t, 30*time.Second, cfg.Watch.Interval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://school.example")
	t.Setenv("API_TIMEOUT", "5")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WATCH_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://school.example", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, StoreRedis, cfg.Session.Store)
	require.Equal(t, 3, cfg.Redis.DB)
	require.Equal(t, time.Minute, cfg.Watch.Interval)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "sqlite")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("API_BASE_URL", "localhost:8000")
	_, err := Load()
	require.Error(t, err)
}
