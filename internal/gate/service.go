package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lookbook/internal/biometric"
	"lookbook/internal/identity"
	"lookbook/internal/installation"
	"lookbook/internal/platform/metrics"
	"lookbook/internal/session"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// Fixed prompt strings shown by the biometric primitive, one per flow.
const (
	gatePrompt   = "Authenticate to continue"
	enablePrompt = "Authenticate to enable biometric login"
)

// BiometricPrefs reads and writes the persisted biometric flag.
type BiometricPrefs interface {
	BiometricEnabled(ctx context.Context, inst domain.InstallationID) (bool, error)
	SetBiometricEnabled(ctx context.Context, inst domain.InstallationID, enabled bool) error
}

// Notifier queues transient user-facing notifications.
type Notifier interface {
	Success(inst domain.InstallationID, msg string)
	Error(inst domain.InstallationID, msg string)
}

// InstallationStore persists installation records.
type InstallationStore interface {
	Save(ctx context.Context, inst *installation.Installation) error
	FindByID(ctx context.Context, id domain.InstallationID) (*installation.Installation, error)
	Delete(ctx context.Context, id domain.InstallationID) error
}

// runtime is the live state of one registered installation: its session
// container, the listener/flush lifetime, and the foreground-session
// biometric challenge.
type runtime struct {
	container *session.Container
	cancel    context.CancelFunc

	mu              sync.Mutex
	challenge       *biometric.Challenge
	challengePassed bool
}

// Service owns the per-installation runtimes and exposes the gating
// operations: registration, screen decisions, onboarding dismissal,
// foreground resets, and the biometric flows.
type Service struct {
	installs InstallationStore
	sessions session.Store
	provider identity.Provider
	verifier biometric.Verifier
	prefs    BiometricPrefs
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time

	mu       sync.Mutex
	baseCtx  context.Context
	runtimes map[domain.InstallationID]*runtime
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

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the gate service. Call Start before registering
// installations.
func NewService(installs InstallationStore, sessions session.Store, provider identity.Provider, verifier biometric.Verifier, prefs BiometricPrefs, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		installs: installs,
		sessions: sessions,
		provider: provider,
		verifier: verifier,
		prefs:    prefs,
		notifier: notifier,
		logger:   slog.Default(),
		tracer:   otel.Tracer("lookbook/internal/gate"),
		now:      time.Now,
		runtimes: make(map[domain.InstallationID]*runtime),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start binds the lifetime every installation runtime hangs off.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseCtx = ctx
}

// Shutdown cancels all installation runtimes.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.runtimes {
		rt.cancel()
	}
	s.runtimes = make(map[domain.InstallationID]*runtime)
}

// Register creates an installation record and brings up its runtime:
// rehydrate the container, start the flush loop, and attach the identity
// listener. The gating router serves Loading until rehydration completes.
func (s *Service) Register(ctx context.Context, userAgent string) (*installation.Installation, error) {
	s.mu.Lock()
	base := s.baseCtx
	s.mu.Unlock()
	if base == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "gate service not started")
	}

	now := s.now().UTC()
	inst := &installation.Installation{
		ID:         domain.NewInstallationID(),
		DeviceName: installation.DisplayName(userAgent),
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.installs.Save(ctx, inst); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save installation")
	}

	rctx, cancel := context.WithCancel(base)
	container := session.NewContainer(inst.ID, s.sessions, s.logger)
	rt := &runtime{container: container, cancel: cancel}

	s.mu.Lock()
	s.runtimes[inst.ID] = rt
	s.mu.Unlock()

	container.Rehydrate(rctx)
	go container.Flush(rctx)

	listener := identity.NewListener(inst.ID, s.provider, container, s.logger, s.metrics)
	go func() {
		if err := listener.Run(rctx); err != nil && rctx.Err() == nil {
			s.logger.Error("identity listener stopped",
				"installation_id", inst.ID, "error", err)
		}
	}()

	if s.metrics != nil {
		s.metrics.ActiveInstallations.Inc()
	}
	s.logger.Info("installation registered",
		"installation_id", inst.ID, "device", inst.DeviceName)
	return inst, nil
}

// Deregister tears an installation down: the listener unsubscribes and no
// further container writes occur.
func (s *Service) Deregister(ctx context.Context, inst domain.InstallationID) error {
	s.mu.Lock()
	rt, ok := s.runtimes[inst]
	if ok {
		delete(s.runtimes, inst)
	}
	s.mu.Unlock()
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "installation not registered")
	}

	rt.cancel()
	if err := s.installs.Delete(ctx, inst); err != nil {
		s.logger.Warn("failed to delete installation record",
			"installation_id", inst, "error", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveInstallations.Dec()
	}
	return nil
}

// Screen evaluates the gating decision for the installation. Total over the
// runtime's state: a preference read failure degrades to biometric-disabled
// rather than failing the decision.
func (s *Service) Screen(ctx context.Context, inst domain.InstallationID) (Screen, error) {
	ctx, span := s.tracer.Start(ctx, "gate.Screen")
	defer span.End()

	rt, err := s.runtime(inst)
	if err != nil {
		span.SetStatus(otelcodes.Error, "installation not registered")
		return "", err
	}

	snap := rt.container.Snapshot()

	biometricEnabled, err := s.prefs.BiometricEnabled(ctx, inst)
	if err != nil {
		s.logger.Warn("biometric preference read failed, assuming disabled",
			"installation_id", inst, "error", err)
		biometricEnabled = false
	}

	rt.mu.Lock()
	challengePassed := rt.challengePassed
	rt.mu.Unlock()

	screen := Decide(snap, biometricEnabled, challengePassed)
	if s.metrics != nil {
		s.metrics.ScreenDecisions.WithLabelValues(string(screen)).Inc()
	}
	span.SetAttributes(
		attribute.String("installation_id", inst.String()),
		attribute.String("screen", string(screen)),
	)
	return screen, nil
}

// CompleteOnboarding dismisses onboarding for this persisted lifetime.
func (s *Service) CompleteOnboarding(_ context.Context, inst domain.InstallationID) error {
	rt, err := s.runtime(inst)
	if err != nil {
		return err
	}
	rt.container.SetHasSeenOnboarding(true)
	return nil
}

// Foreground records an app-foreground transition: the biometric gate re-arms
// and the installation's activity timestamp advances.
func (s *Service) Foreground(ctx context.Context, inst domain.InstallationID) error {
	rt, err := s.runtime(inst)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	rt.challengePassed = false
	rt.challenge = nil
	rt.mu.Unlock()

	if record, err := s.installs.FindByID(ctx, inst); err == nil {
		record.RecordActivity(s.now().UTC())
		if err := s.installs.Save(ctx, record); err != nil {
			s.logger.Warn("failed to record installation activity",
				"installation_id", inst, "error", err)
		}
	}
	return nil
}

// RunChallenge runs the gate-entry biometric challenge. Failure leaves the
// gate armed; the client retries by calling again. Success unlocks MainApp
// until the next foreground transition.
func (s *Service) RunChallenge(ctx context.Context, inst domain.InstallationID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "gate.RunChallenge")
	defer span.End()

	rt, err := s.runtime(inst)
	if err != nil {
		return false, err
	}
	if !rt.container.Snapshot().Authenticated {
		return false, dErrors.New(dErrors.CodeForbidden, "challenge requires a signed-in session")
	}

	rt.mu.Lock()
	if rt.challenge == nil {
		rt.challenge = biometric.NewChallenge(s.verifier, gatePrompt)
	}
	challenge := rt.challenge
	rt.mu.Unlock()

	ok, err := challenge.Run(ctx)
	outcome := "failure"
	switch {
	case err != nil:
		outcome = "error"
		span.SetStatus(otelcodes.Error, "verification unavailable")
	case ok:
		outcome = "success"
	}
	if s.metrics != nil {
		s.metrics.BiometricChallenges.WithLabelValues(outcome).Inc()
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	if err != nil {
		return false, err
	}

	if ok {
		rt.mu.Lock()
		rt.challengePassed = true
		rt.mu.Unlock()
	}
	return ok, nil
}

// EnableBiometric persists the biometric flag after a successful local
// challenge with the toggle's own prompt. The gating flow never persists
// anything.
func (s *Service) EnableBiometric(ctx context.Context, inst domain.InstallationID) error {
	if _, err := s.runtime(inst); err != nil {
		return err
	}

	available, err := biometric.Available(ctx, s.verifier)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "biometric availability check failed")
	}
	if !available {
		return dErrors.New(dErrors.CodeUnavailable, "biometrics not available on this device")
	}

	ok, err := biometric.NewChallenge(s.verifier, enablePrompt).Run(ctx)
	if err != nil || !ok {
		s.notifier.Error(inst, "Authentication failed.")
		if s.metrics != nil {
			s.metrics.BiometricChallenges.WithLabelValues("failure").Inc()
		}
		if err != nil {
			return err
		}
		return dErrors.New(dErrors.CodeUnauthorized, "biometric verification failed")
	}

	if err := s.prefs.SetBiometricEnabled(ctx, inst, true); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.BiometricChallenges.WithLabelValues("success").Inc()
	}
	s.notifier.Success(inst, "Biometric authentication enabled.")
	return nil
}

// DisableBiometric clears the flag. No challenge is required to turn the gate
// off.
func (s *Service) DisableBiometric(ctx context.Context, inst domain.InstallationID) error {
	if _, err := s.runtime(inst); err != nil {
		return err
	}
	if err := s.prefs.SetBiometricEnabled(ctx, inst, false); err != nil {
		return err
	}
	s.notifier.Success(inst, "Biometric login disabled.")
	return nil
}

// Wipe is the explicit data wipe used by sign-out.
func (s *Service) Wipe(ctx context.Context, inst domain.InstallationID) {
	rt, err := s.runtime(inst)
	if err != nil {
		return
	}
	rt.container.Wipe(ctx)
	rt.mu.Lock()
	rt.challengePassed = false
	rt.challenge = nil
	rt.mu.Unlock()
}

// SessionSnapshot exposes the installation's current session state, for
// debugging surfaces and tests.
func (s *Service) SessionSnapshot(inst domain.InstallationID) (session.Snapshot, error) {
	rt, err := s.runtime(inst)
	if err != nil {
		return session.Snapshot{}, err
	}
	return rt.container.Snapshot(), nil
}

func (s *Service) runtime(inst domain.InstallationID) (*runtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt, ok := s.runtimes[inst]; ok {
		return rt, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "installation not registered")
}
