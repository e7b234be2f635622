package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/internal/config"
	"github.com/saadamjad-44/school-attendance-system/internal/services/lifecycle"
)

func TestOpenBoltSessionStore(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{
		Store:    config.StoreBolt,
		BoltPath: filepath.Join(t.TempDir(), "nested", "session.db"),
	}}
	manager := lifecycle.New(time.Second, nil)
	ctx := context.Background()

	store, err := OpenSessionStore(ctx, cfg, manager, nil)
	require.NoError(t, err)
	require.NotNil(t, store.Profiles)

	require.NoError(t, store.Repository.Save(ctx, &domain.Session{
		ID:      "office",
		Cookies: []domain.Cookie{{Name: domain.SessionCookieName, Value: "abc"}},
	}))
	profiles, err := store.Profiles()
	require.NoError(t, err)
	require.Equal(t, []string{"office"}, profiles)
	require.NoError(t, manager.Close())
}

func TestOpenMemorySessionStore(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Store: config.StoreMemory}}
	store, err := OpenSessionStore(context.Background(), cfg, lifecycle.New(0, nil), nil)
	require.NoError(t, err)
	require.Nil(t, store.Profiles)
}

func TestOpenUnknownSessionStore(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Store: "sqlite"}}
	_, err := OpenSessionStore(context.Background(), cfg, lifecycle.New(0, nil), nil)
	require.Error(t, err)
}
