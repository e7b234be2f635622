package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	_, err := repo.Get(ctx, "default")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.ErrorIs(t, repo.Save(ctx, &domain.Session{}), domain.ErrInvalidPayload)

	session := &domain.Session{ID: "default", Cookies: []domain.Cookie{{Name: "session", Value: "abc"}}}
	require.NoError(t, repo.Save(ctx, session))

	// stored copies are detached from the caller's slice
	session.Cookies[0].Value = "mutated"
	got, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, "abc", got.Cookies[0].Value)

	require.NoError(t, repo.Delete(ctx, "default"))
	_, err = repo.Get(ctx, "default")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}
