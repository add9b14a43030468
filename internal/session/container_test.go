package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookbook/internal/session"
	"lookbook/internal/session/store"
	"lookbook/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newContainer(t *testing.T) (*session.Container, *store.Memory, domain.InstallationID) {
	t.Helper()
	id := domain.NewInstallationID()
	st := store.NewMemory()
	return session.NewContainer(id, st, testLogger()), st, id
}

func TestRehydrateFreshInstall(t *testing.T) {
	c, _, _ := newContainer(t)

	snap := c.Snapshot()
	assert.False(t, snap.AuthReady, "container must start not-ready")

	c.Rehydrate(context.Background())

	snap = c.Snapshot()
	assert.True(t, snap.AuthReady)
	assert.False(t, snap.Authenticated)
	assert.False(t, snap.HasSeenOnboarding)
	assert.Empty(t, snap.Token)
}

func TestRehydrateRestoresPersistedSlice(t *testing.T) {
	ctx := context.Background()
	id := domain.NewInstallationID()
	st := store.NewMemory()

	first := session.NewContainer(id, st, testLogger())
	first.Rehydrate(ctx)
	first.ApplyIdentity("jwt-abc")
	first.SetHasSeenOnboarding(true)
	require.NoError(t, first.FlushNow(ctx))

	second := session.NewContainer(id, st, testLogger())
	second.Rehydrate(ctx)

	snap := second.Snapshot()
	assert.True(t, snap.AuthReady)
	assert.True(t, snap.Authenticated)
	assert.True(t, snap.HasSeenOnboarding)
	assert.Equal(t, "jwt-abc", snap.Token)
}

func TestMarkAuthReadyIsOneWay(t *testing.T) {
	c, _, _ := newContainer(t)

	c.MarkAuthReady()
	c.MarkAuthReady()
	assert.True(t, c.Snapshot().AuthReady)

	// A wipe must not revert readiness: it is runtime state, not session data.
	c.Wipe(context.Background())
	assert.True(t, c.Snapshot().AuthReady)
}

func TestSetHasSeenOnboardingIsMonotonic(t *testing.T) {
	c, _, _ := newContainer(t)

	c.SetHasSeenOnboarding(true)
	assert.True(t, c.Snapshot().HasSeenOnboarding)

	c.SetHasSeenOnboarding(false)
	assert.True(t, c.Snapshot().HasSeenOnboarding, "false must be ignored once dismissed")

	c.Wipe(context.Background())
	assert.False(t, c.Snapshot().HasSeenOnboarding, "only the explicit wipe resets the flag")
}

func TestApplyIdentityIsOneCombinedUpdate(t *testing.T) {
	c, _, _ := newContainer(t)
	c.MarkAuthReady()

	updates, cancel := c.Subscribe()
	defer cancel()

	c.ApplyIdentity("jwt-xyz")

	select {
	case snap := <-updates:
		assert.True(t, snap.Authenticated)
		assert.Equal(t, "jwt-xyz", snap.Token, "watchers must never observe authenticated without the token")
	case <-time.After(time.Second):
		t.Fatal("no update observed")
	}
}

func TestClearIdentityDropsTokenInSameUpdate(t *testing.T) {
	c, _, _ := newContainer(t)
	c.MarkAuthReady()
	c.ApplyIdentity("jwt-xyz")

	updates, cancel := c.Subscribe()
	defer cancel()

	c.ClearIdentity()

	select {
	case snap := <-updates:
		assert.False(t, snap.Authenticated)
		assert.Empty(t, snap.Token)
	case <-time.After(time.Second):
		t.Fatal("no update observed")
	}
}

func TestWipePurgesPersistedSlice(t *testing.T) {
	ctx := context.Background()
	c, st, id := newContainer(t)
	c.Rehydrate(ctx)
	c.ApplyIdentity("jwt")
	c.SetHasSeenOnboarding(true)
	require.NoError(t, c.FlushNow(ctx))

	c.Wipe(ctx)

	_, err := st.Load(ctx, id)
	require.Error(t, err, "persisted slice must be purged")

	snap := c.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Empty(t, snap.Token)
	assert.False(t, snap.HasSeenOnboarding)
}

func TestWipeDiscardsQueuedSnapshot(t *testing.T) {
	ctx := context.Background()
	c, st, id := newContainer(t)
	c.Rehydrate(ctx)

	// Queue a snapshot without a flush loop running, then wipe before it
	// was ever persisted.
	c.ApplyIdentity("jwt-stale")
	c.SetHasSeenOnboarding(true)
	c.Wipe(ctx)

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.Flush(fctx)

	require.Never(t, func() bool {
		_, err := st.Load(ctx, id)
		return err == nil
	}, 300*time.Millisecond, 20*time.Millisecond, "pre-wipe snapshot must not resurrect the wiped state")
}

func TestFlushPersistsInBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, st, id := newContainer(t)
	c.Rehydrate(ctx)
	go c.Flush(ctx)

	c.ApplyIdentity("jwt-flush")

	require.Eventually(t, func() bool {
		snap, err := st.Load(ctx, id)
		return err == nil && snap.Authenticated && snap.Token == "jwt-flush"
	}, time.Second, 5*time.Millisecond)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	c, _, _ := newContainer(t)

	updates, cancel := c.Subscribe()
	cancel()

	c.SetAuthenticated(true)

	// The channel is closed on cancel; only the zero value can come out.
	select {
	case snap, ok := <-updates:
		assert.False(t, ok, "channel must be closed, got %+v", snap)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("closed channel should read immediately")
	}
}

func TestSlowWatcherDoesNotBlockWriters(t *testing.T) {
	c, _, _ := newContainer(t)

	_, cancel := c.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More writes than the watcher buffer holds; none may block.
		for i := 0; i < 100; i++ {
			c.SetAuthenticated(i%2 == 0)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked on a slow watcher")
	}
}
