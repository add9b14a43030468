package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookbook/internal/sentinel"
	"lookbook/internal/session"
	"lookbook/pkg/domain"
)

func TestMemoryLoadUnknownInstallation(t *testing.T) {
	st := NewMemory()
	_, err := st.Load(context.Background(), domain.NewInstallationID())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemorySaveLoadPurge(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	id := domain.NewInstallationID()

	in := session.Snapshot{Authenticated: true, HasSeenOnboarding: true, Token: "jwt"}
	require.NoError(t, st.Save(ctx, id, in))

	out, err := st.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, out.Authenticated)
	assert.True(t, out.HasSeenOnboarding)
	assert.Equal(t, "jwt", out.Token)

	require.NoError(t, st.Purge(ctx, id))
	_, err = st.Load(ctx, id)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemoryDoesNotPersistAuthReady(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	id := domain.NewInstallationID()

	require.NoError(t, st.Save(ctx, id, session.Snapshot{AuthReady: true}))

	out, err := st.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, out.AuthReady, "readiness is runtime-only and must not survive a restart")
}
