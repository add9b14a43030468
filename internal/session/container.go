// Package session owns the per-installation session state machine: the single
// source of truth for authentication and readiness flags, mutated only through
// the named operations below and rehydrated from a persisted store at start.
package session

import (
	"context"
	"log/slog"
	"sync"

	"lookbook/pkg/domain"
)

// Store persists the whitelisted session slice across process restarts.
// Error Contract: Load returns an error wrapping sentinel.ErrNotFound when no
// slice has been persisted for the installation yet.
type Store interface {
	Load(ctx context.Context, id domain.InstallationID) (Snapshot, error)
	Save(ctx context.Context, id domain.InstallationID, s Snapshot) error
	Purge(ctx context.Context, id domain.InstallationID) error
}

// Container is the session state container for a single installation. All
// mutation funnels through its methods; the state field is never touched
// directly by any other component. Reads never block on persistence and no
// operation can fail: durability is handled by a background flush.
type Container struct {
	id     domain.InstallationID
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	state    Snapshot
	watchers map[int]chan Snapshot
	nextID   int

	// persistCh carries at most the latest snapshot awaiting a flush.
	// Last write wins; intermediate snapshots may be skipped.
	persistCh chan persistReq
	// gen invalidates queued snapshots: Wipe bumps it so a snapshot
	// captured before the wipe is never flushed after the purge.
	gen uint64

	// persistMu serializes store writes so a save already in flight
	// cannot land after Wipe's purge.
	persistMu sync.Mutex
}

// persistReq is one queued flush: the snapshot and the generation it was
// captured under.
type persistReq struct {
	snap Snapshot
	gen  uint64
}

// NewContainer creates a container with default (unauthenticated, not-ready)
// state. Call Rehydrate before serving reads, and run Flush in a goroutine for
// the container's lifetime.
func NewContainer(id domain.InstallationID, store Store, logger *slog.Logger) *Container {
	return &Container{
		id:        id,
		store:     store,
		logger:    logger,
		watchers:  make(map[int]chan Snapshot),
		persistCh: make(chan persistReq, 1),
	}
}

// Rehydrate restores the persisted session slice and marks the container
// ready. A missing slice (fresh install) is not an error; any other load
// failure keeps default state so the client falls back to the login flow
// rather than blocking forever on a spinner.
func (c *Container) Rehydrate(ctx context.Context) {
	snap, err := c.store.Load(ctx, c.id)
	if err == nil {
		c.mu.Lock()
		c.state.Authenticated = snap.Authenticated
		c.state.HasSeenOnboarding = snap.HasSeenOnboarding
		c.state.Token = snap.Token
		c.mu.Unlock()
	} else {
		c.logger.Debug("no persisted session slice", "installation_id", c.id, "error", err)
	}
	c.MarkAuthReady()
}

// Snapshot returns the latest completed state. Never blocks.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetAuthenticated sets the authenticated flag. No side effects beyond the
// flag itself; callers that also hold a token should prefer ApplyIdentity.
func (c *Container) SetAuthenticated(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Authenticated = v
	c.changedLocked()
}

// SetToken sets the identity token. Callers must keep it consistent with the
// authenticated flag; the identity listener uses ApplyIdentity instead so the
// two never diverge observably.
func (c *Container) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Token = token
	c.changedLocked()
}

// SetHasSeenOnboarding marks onboarding as dismissed. One-way: once true, a
// false argument is ignored. Only Wipe resets the flag.
func (c *Container) SetHasSeenOnboarding(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !v && c.state.HasSeenOnboarding {
		return
	}
	if v == c.state.HasSeenOnboarding {
		return
	}
	c.state.HasSeenOnboarding = v
	c.changedLocked()
}

// ApplyIdentity records a signed-in identity and its token as a single
// combined update, so no reader can observe authenticated-without-token as a
// separate intermediate state.
func (c *Container) ApplyIdentity(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Authenticated = true
	c.state.Token = token
	c.changedLocked()
}

// ClearIdentity records a signed-out identity, dropping the token in the same
// update.
func (c *Container) ClearIdentity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Authenticated = false
	c.state.Token = ""
	c.changedLocked()
}

// MarkAuthReady flips the readiness flag. Idempotent; the flag never reverts
// for the container's lifetime.
func (c *Container) MarkAuthReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.AuthReady {
		return
	}
	c.state.AuthReady = true
	c.changedLocked()
}

// Wipe is the explicit data wipe: it clears identity and onboarding state and
// purges the persisted slice. AuthReady is runtime state and survives.
func (c *Container) Wipe(ctx context.Context) {
	c.mu.Lock()
	c.state.Authenticated = false
	c.state.Token = ""
	c.state.HasSeenOnboarding = false
	c.gen++
	// Drop any queued pre-wipe snapshot so it cannot resurrect the wiped
	// state in the store.
	select {
	case <-c.persistCh:
	default:
	}
	snap := c.state
	for _, ch := range c.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
	c.mu.Unlock()

	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	if err := c.store.Purge(ctx, c.id); err != nil {
		c.logger.Warn("failed to purge persisted session slice",
			"installation_id", c.id, "error", err)
	}
}

// Subscribe registers a watcher that receives a snapshot after every state
// change. Slow watchers miss intermediate snapshots rather than blocking
// writers. The returned cancel func releases the watcher.
func (c *Container) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	ch := make(chan Snapshot, 16)
	c.watchers[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w, ok := c.watchers[id]; ok {
			delete(c.watchers, id)
			close(w)
		}
	}
	return ch, cancel
}

// Flush persists pending snapshots until ctx is cancelled. Run it in a
// goroutine tied to the installation's lifetime.
func (c *Container) Flush(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-c.persistCh:
			c.persistMu.Lock()
			c.mu.RLock()
			stale := req.gen != c.gen
			c.mu.RUnlock()
			if !stale {
				if err := c.store.Save(ctx, c.id, req.snap); err != nil {
					c.logger.Warn("failed to persist session slice",
						"installation_id", c.id, "error", err)
				}
			}
			c.persistMu.Unlock()
		}
	}
}

// FlushNow synchronously persists the current state. Used by tests and by
// shutdown paths that cannot wait for the background flush.
func (c *Container) FlushNow(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	return c.store.Save(ctx, c.id, c.Snapshot())
}

// changedLocked fans the new state out to watchers and queues a flush.
// Callers must hold c.mu.
func (c *Container) changedLocked() {
	snap := c.state
	for _, ch := range c.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
	// Replace any queued snapshot with the latest one.
	req := persistReq{snap: snap, gen: c.gen}
	select {
	case c.persistCh <- req:
	default:
		select {
		case <-c.persistCh:
		default:
		}
		select {
		case c.persistCh <- req:
		default:
		}
	}
}
