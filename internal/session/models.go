package session

// Snapshot is an immutable view of one installation's session state. The
// gating router and all other readers consume snapshots, never the container's
// internals.
type Snapshot struct {
	// Authenticated is true iff the identity listener's last observed value
	// was signed-in.
	Authenticated bool `json:"authenticated"`

	// HasSeenOnboarding is true once the user has advanced past onboarding in
	// this persisted lifetime. Monotonic: only an explicit wipe resets it.
	HasSeenOnboarding bool `json:"has_seen_onboarding"`

	// Token is the most recently retrieved identity token; empty when
	// unauthenticated or when the token fetch failed and was degraded.
	Token string `json:"token"`

	// AuthReady flips to true exactly once, after rehydration completes. It
	// gates all rendering decisions and is never persisted.
	AuthReady bool `json:"-"`
}
