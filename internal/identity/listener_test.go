package identity_test

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lookbook/internal/identity"
	"lookbook/internal/identity/mocks"
	"lookbook/internal/session"
	sessionStore "lookbook/internal/session/store"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newListenerFixture(t *testing.T) (*mocks.MockProvider, *session.Container, domain.InstallationID) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	inst := domain.NewInstallationID()
	container := session.NewContainer(inst, sessionStore.NewMemory(), testLogger())
	container.MarkAuthReady()
	return provider, container, inst
}

func TestListenerAppliesSignIn(t *testing.T) {
	provider, container, inst := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *identity.Identity, 1)
	updates <- &identity.Identity{UserID: domain.NewUserID(), Email: "a@b.com"}

	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)
	provider.EXPECT().Token(gomock.Any(), inst).Return("jwt-token", nil)

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	go l.Run(ctx)

	require.Eventually(t, func() bool {
		snap := container.Snapshot()
		return snap.Authenticated && snap.Token == "jwt-token"
	}, time.Second, 5*time.Millisecond)
}

func TestListenerDegradesFailedTokenFetchToEmptyToken(t *testing.T) {
	provider, container, inst := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *identity.Identity, 1)
	updates <- &identity.Identity{UserID: domain.NewUserID(), Email: "a@b.com"}

	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)
	provider.EXPECT().Token(gomock.Any(), inst).
		Return("", dErrors.New(dErrors.CodeNetworkRequestFailed, "network down"))

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	go l.Run(ctx)

	// The session still becomes authenticated; only the token degrades.
	require.Eventually(t, func() bool {
		return container.Snapshot().Authenticated
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, container.Snapshot().Token)
}

func TestListenerClearsIdentityOnSignOut(t *testing.T) {
	provider, container, inst := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container.ApplyIdentity("old-token")

	updates := make(chan *identity.Identity, 1)
	updates <- nil // signed-out notification

	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	go l.Run(ctx)

	require.Eventually(t, func() bool {
		snap := container.Snapshot()
		return !snap.Authenticated && snap.Token == ""
	}, time.Second, 5*time.Millisecond)
}

func TestListenerStopsOnCancel(t *testing.T) {
	provider, container, inst := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan *identity.Identity, 1)
	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on cancel")
	}

	// A late notification must not reach the container.
	updates <- &identity.Identity{UserID: domain.NewUserID()}
	time.Sleep(20 * time.Millisecond)
	assert.False(t, container.Snapshot().Authenticated)
}

func TestListenerSkipsSignOutAfterCancel(t *testing.T) {
	provider, container, inst := newListenerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	container.ApplyIdentity("live-token")

	// A signed-out notification already queued when the context is
	// cancelled must not clear identity.
	updates := make(chan *identity.Identity, 1)
	updates <- nil
	cancel()

	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	snap := container.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "live-token", snap.Token)
}

func TestListenerReturnsWhenStreamCloses(t *testing.T) {
	provider, container, inst := newListenerFixture(t)

	updates := make(chan *identity.Identity)
	close(updates)
	provider.EXPECT().Watch(gomock.Any(), inst).Return((<-chan *identity.Identity)(updates), nil)

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	err := l.Run(context.Background())
	assert.NoError(t, err)
}

func TestListenerPropagatesWatchError(t *testing.T) {
	provider, container, inst := newListenerFixture(t)

	provider.EXPECT().Watch(gomock.Any(), inst).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "stream unavailable"))

	l := identity.NewListener(inst, provider, container, testLogger(), nil)
	err := l.Run(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
