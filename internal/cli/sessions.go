package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/internal/config"
	redisInfra "github.com/saadamjad-44/school-attendance-system/internal/infrastructure/redis"
	"github.com/saadamjad-44/school-attendance-system/internal/services/lifecycle"
	"github.com/saadamjad-44/school-attendance-system/repository"
	boltRepo "github.com/saadamjad-44/school-attendance-system/repository/bolt"
	"github.com/saadamjad-44/school-attendance-system/repository/memory"
	redisRepo "github.com/saadamjad-44/school-attendance-system/repository/redis"
)

// SessionStore is the opened cookie jar plus, for stores that can enumerate
// them, a lister of saved profiles.
type SessionStore struct {
	Repository repository.SessionRepository
	Profiles   func() ([]string, error)
}

// OpenSessionStore opens the store selected by cfg and registers its release
// with manager.
func OpenSessionStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Session.Store {
	case config.StoreMemory:
		return &SessionStore{Repository: memory.NewSessionRepository()}, nil

	case config.StoreBolt:
		repo, err := boltRepo.Open(cfg.Session.BoltPath, "sessions")
		if err != nil {
			return nil, fmt.Errorf("open session file %s: %w", cfg.Session.BoltPath, err)
		}
		manager.Register("bolt_sessions", func(context.Context) error {
			return repo.Close()
		})
		return &SessionStore{Repository: repo, Profiles: repo.Profiles}, nil

	case config.StoreRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect session redis: %w", err)
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		logger.Debug("using redis session store", zap.Duration("ttl", cfg.Session.TTL))
		return &SessionStore{Repository: redisRepo.NewSessionRepository(client, cfg.Session.TTL)}, nil
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}
