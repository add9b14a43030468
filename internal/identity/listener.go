package identity

import (
	"context"
	"log/slog"

	"lookbook/internal/platform/metrics"
	"lookbook/internal/session"
	"lookbook/pkg/domain"
)

// Listener subscribes once, for the lifetime of an installation's runtime, to
// the provider's auth-state stream and drives the session container from it.
// Each notification becomes exactly one combined container update, so readers
// never observe authenticated-without-token as an intermediate state.
type Listener struct {
	inst      domain.InstallationID
	provider  Provider
	container *session.Container
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewListener wires a listener for one installation. metrics may be nil.
func NewListener(inst domain.InstallationID, provider Provider, container *session.Container, logger *slog.Logger, m *metrics.Metrics) *Listener {
	return &Listener{
		inst:      inst,
		provider:  provider,
		container: container,
		logger:    logger,
		metrics:   m,
	}
}

// Run consumes auth-state changes until ctx is cancelled. No container writes
// occur after cancellation.
func (l *Listener) Run(ctx context.Context) error {
	updates, err := l.provider.Watch(ctx, l.inst)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-updates:
			if !ok {
				return nil
			}
			l.apply(ctx, id)
		}
	}
}

func (l *Listener) apply(ctx context.Context, id *Identity) {
	if id == nil {
		if ctx.Err() != nil {
			return
		}
		l.container.ClearIdentity()
		return
	}

	token, err := l.provider.Token(ctx, l.inst)
	if err != nil {
		// A failed token fetch degrades to an empty token instead of
		// propagating; the client can retry via the normal auth flows.
		l.logger.WarnContext(ctx, "token fetch failed, degrading to empty token",
			"installation_id", l.inst,
			"user_id", id.UserID,
			"error", err,
		)
		if l.metrics != nil {
			l.metrics.TokenFetchFailures.Inc()
		}
		token = ""
	}

	select {
	case <-ctx.Done():
		return
	default:
	}
	l.container.ApplyIdentity(token)
}
