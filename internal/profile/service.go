// Package profile manages user profile documents in the document store.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lookbook/internal/docstore"
	"lookbook/internal/sentinel"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// UserIDResolver resolves the cached user id for an installation.
type UserIDResolver interface {
	CachedUserID(ctx context.Context, inst domain.InstallationID) (domain.UserID, error)
}

// Sessions signs an installation out; used by the forced sign-out policy.
type Sessions interface {
	SignOut(ctx context.Context, inst domain.InstallationID) error
}

// Notifier queues transient user-facing notifications.
type Notifier interface {
	Error(inst domain.InstallationID, msg string)
}

// Service reads and writes profile documents. A document store failure while
// reading forces sign-out after a delay: an inconsistent profile view is never
// shown. A missing document is not a failure.
type Service struct {
	docs         docstore.Store
	users        UserIDResolver
	notifier     Notifier
	sessions     Sessions
	signOutDelay time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// ServiceOption configures Service.
type ServiceOption func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the profile service. Bind the sessions dependency with
// BindSessions before serving reads; it is late-bound because the auth service
// in turn depends on profile creation.
func NewService(docs docstore.Store, users UserIDResolver, notifier Notifier, signOutDelay time.Duration, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		docs:         docs,
		users:        users,
		notifier:     notifier,
		signOutDelay: signOutDelay,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// BindSessions wires the forced sign-out dependency.
func (s *Service) BindSessions(sessions Sessions) {
	s.sessions = sessions
}

// Create writes a fresh profile document during sign-up.
func (s *Service) Create(ctx context.Context, userID domain.UserID, fullName, email string) error {
	now := s.now().UTC()
	p := &Profile{FullName: fullName, Email: email, CreatedAt: now, LastSeen: now}
	if err := s.docs.Set(ctx, usersCollection, userID.String(), p.document()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "write profile document")
	}
	return nil
}

// Get fetches the profile for the installation's cached user. A store failure
// triggers the forced sign-out policy and surfaces as unavailable; a missing
// document surfaces as not found without forcing anything.
func (s *Service) Get(ctx context.Context, inst domain.InstallationID) (*Profile, error) {
	userID, err := s.users.CachedUserID(ctx, inst)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "no cached user for installation")
	}
	return s.getByUser(ctx, inst, userID)
}

func (s *Service) getByUser(ctx context.Context, inst domain.InstallationID, userID domain.UserID) (*Profile, error) {
	doc, err := s.docs.Get(ctx, usersCollection, userID.String())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		s.forceSignOut(inst, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "profile fetch failed")
	}

	p, err := fromDocument(doc)
	if err != nil {
		// A malformed document is treated like a store failure: better to
		// sign out than render an inconsistent view.
		s.forceSignOut(inst, err)
		return nil, err
	}
	return p, nil
}

// UpdateFullName patches the profile's full name and touches last-seen.
func (s *Service) UpdateFullName(ctx context.Context, inst domain.InstallationID, fullName string) error {
	if fullName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "full name cannot be empty")
	}
	userID, err := s.users.CachedUserID(ctx, inst)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "no cached user for installation")
	}

	partial := docstore.Document{
		"fullName": fullName,
		"lastSeen": s.now().UTC().Format(time.RFC3339),
	}
	err = s.docs.Update(ctx, usersCollection, userID.String(), partial)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "profile update failed")
	}
	return nil
}

// forceSignOut applies the data-integrity-first policy: queue the fixed toast,
// then sign the installation out after the configured delay.
func (s *Service) forceSignOut(inst domain.InstallationID, cause error) {
	s.logger.Error("profile fetch failed, forcing sign-out",
		"installation_id", inst, "error", cause)
	if s.notifier != nil {
		s.notifier.Error(inst, "Error connecting to server. Logging out...")
	}
	if s.sessions == nil {
		return
	}
	sessions := s.sessions
	time.AfterFunc(s.signOutDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sessions.SignOut(ctx, inst); err != nil {
			s.logger.Error("forced sign-out failed", "installation_id", inst, "error", err)
		}
	})
}
