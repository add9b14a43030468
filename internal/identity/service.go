package identity

import (
	"context"
	"log/slog"

	"lookbook/internal/platform/metrics"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// Profiles creates the user profile document during sign-up.
type Profiles interface {
	Create(ctx context.Context, userID domain.UserID, fullName, email string) error
}

// Preferences caches the signed-in user identifier per installation.
type Preferences interface {
	SetCachedUserID(ctx context.Context, inst domain.InstallationID, id domain.UserID) error
}

// Notifier queues transient user-facing notifications.
type Notifier interface {
	Success(inst domain.InstallationID, msg string)
	Error(inst domain.InstallationID, msg string)
}

// SessionWiper performs the explicit data wipe on sign-out.
type SessionWiper interface {
	Wipe(ctx context.Context, inst domain.InstallationID)
}

// Service orchestrates the auth flows around the provider: profile document
// creation, user id caching, toast queueing, and the sign-out wipe. Session
// container updates are NOT issued here; they arrive through the listener so
// the provider's auth-state stream stays the single source of those writes.
type Service struct {
	provider Provider
	profiles Profiles
	prefs    Preferences
	sessions SessionWiper
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs the auth orchestration service.
func NewService(provider Provider, profiles Profiles, prefs Preferences, sessions SessionWiper, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		profiles: profiles,
		prefs:    prefs,
		sessions: sessions,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SignIn authenticates the installation with email/password. Provider errors
// are mapped to their fixed toast message and never block: the session simply
// stays signed out.
func (s *Service) SignIn(ctx context.Context, inst domain.InstallationID, email, password string) error {
	id, err := s.provider.SignIn(ctx, inst, email, password)
	if err != nil {
		s.recordAuthFailure(ctx, "sign_in", inst, err)
		s.notifier.Error(inst, SignInMessage(err))
		return err
	}

	// Caching on sign-in as well as sign-up, so a reinstalled device regains
	// its cached id on the next login.
	if err := s.prefs.SetCachedUserID(ctx, inst, id.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to cache user id",
			"installation_id", inst, "user_id", id.UserID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.SignIns.Inc()
	}
	s.notifier.Success(inst, "Login successful.")
	return nil
}

// SignUp registers a new account, creates its profile document, and caches the
// user id for the installation.
func (s *Service) SignUp(ctx context.Context, inst domain.InstallationID, email, password, fullName string) error {
	id, err := s.provider.SignUp(ctx, inst, email, password, fullName)
	if err != nil {
		s.recordAuthFailure(ctx, "sign_up", inst, err)
		s.notifier.Error(inst, SignUpMessage(err))
		return err
	}

	if err := s.profiles.Create(ctx, id.UserID, fullName, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to create profile document",
			"installation_id", inst, "user_id", id.UserID, "error", err)
		s.notifier.Error(inst, fallbackSignUpMessage)
		return dErrors.Wrap(err, dErrors.CodeInternal, "profile creation failed")
	}

	if err := s.prefs.SetCachedUserID(ctx, inst, id.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to cache user id",
			"installation_id", inst, "user_id", id.UserID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.SignUps.Inc()
	}
	s.notifier.Success(inst, "Signup successful.")
	return nil
}

// SignOut signs the installation out and performs the explicit wipe of the
// persisted session slice. The container observes the sign-out through the
// provider stream.
func (s *Service) SignOut(ctx context.Context, inst domain.InstallationID) error {
	if err := s.provider.SignOut(ctx, inst); err != nil {
		s.logger.ErrorContext(ctx, "sign out failed",
			"installation_id", inst, "error", err)
		return err
	}
	s.sessions.Wipe(ctx, inst)
	if s.metrics != nil {
		s.metrics.SignOuts.Inc()
	}
	return nil
}

func (s *Service) recordAuthFailure(ctx context.Context, flow string, inst domain.InstallationID, err error) {
	code := dErrors.CodeOf(err)
	s.logger.WarnContext(ctx, "auth failure",
		"flow", flow,
		"installation_id", inst,
		"code", string(code),
	)
	if s.metrics != nil {
		s.metrics.AuthFailures.WithLabelValues(string(code)).Inc()
	}
}
