package repository

import (
	"context"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

// SessionRepository persists the client-side cookie jar per profile. It is the
// session-credential provider injected into the request gateway.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
