// Package prefs manages the small persisted per-installation preferences: the
// biometric flag, the theme, and the cached user identifier.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lookbook/internal/sentinel"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// KV is the persisted key-value store collaborator.
// Error Contract: GetItem returns an error wrapping sentinel.ErrNotFound when
// the key has never been written.
type KV interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	DeleteItem(ctx context.Context, key string) error
}

// Theme is the persisted theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme value at the trust boundary.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "theme must be light or dark")
	}
}

// Preferences aggregates an installation's stored preferences for responses.
type Preferences struct {
	BiometricEnabled bool   `json:"biometric_enabled"`
	Theme            Theme  `json:"theme"`
	CachedUserID     string `json:"cached_user_id,omitempty"`
}

// Service reads and writes preferences through the KV collaborator.
type Service struct {
	kv           KV
	systemScheme Theme
	logger       *slog.Logger
}

// NewService constructs the preference service. systemScheme is the theme
// reported by the device, applied when no preference is stored.
func NewService(kv KV, systemScheme Theme, logger *slog.Logger) *Service {
	if systemScheme != ThemeDark {
		systemScheme = ThemeLight
	}
	return &Service{kv: kv, systemScheme: systemScheme, logger: logger}
}

func biometricKey(inst domain.InstallationID) string { return "biometric:" + inst.String() }
func themeKey(inst domain.InstallationID) string     { return "theme:" + inst.String() }
func userIDKey(inst domain.InstallationID) string    { return "uid:" + inst.String() }

// BiometricEnabled reads the biometric flag; unset means disabled.
func (s *Service) BiometricEnabled(ctx context.Context, inst domain.InstallationID) (bool, error) {
	v, err := s.kv.GetItem(ctx, biometricKey(inst))
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read biometric flag: %w", err)
	}
	return v == "true", nil
}

// SetBiometricEnabled writes the biometric flag. Callers must have passed a
// biometric challenge before enabling; that rule lives in the gate service.
func (s *Service) SetBiometricEnabled(ctx context.Context, inst domain.InstallationID, enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	if err := s.kv.SetItem(ctx, biometricKey(inst), v); err != nil {
		return fmt.Errorf("write biometric flag: %w", err)
	}
	return nil
}

// Theme reads the theme preference, defaulting to the system scheme when
// unset or unreadable.
func (s *Service) Theme(ctx context.Context, inst domain.InstallationID) (Theme, error) {
	v, err := s.kv.GetItem(ctx, themeKey(inst))
	if errors.Is(err, sentinel.ErrNotFound) {
		return s.systemScheme, nil
	}
	if err != nil {
		return s.systemScheme, fmt.Errorf("read theme: %w", err)
	}
	theme, err := ParseTheme(v)
	if err != nil {
		// A corrupt stored value falls back to the system scheme.
		s.logger.Warn("ignoring invalid stored theme", "installation_id", inst, "value", v)
		return s.systemScheme, nil
	}
	return theme, nil
}

// SetTheme writes the theme preference.
func (s *Service) SetTheme(ctx context.Context, inst domain.InstallationID, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := s.kv.SetItem(ctx, themeKey(inst), string(theme)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// CachedUserID reads the cached user identifier for the installation.
func (s *Service) CachedUserID(ctx context.Context, inst domain.InstallationID) (domain.UserID, error) {
	v, err := s.kv.GetItem(ctx, userIDKey(inst))
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.UserID{}, dErrors.New(dErrors.CodeNotFound, "no cached user id")
	}
	if err != nil {
		return domain.UserID{}, fmt.Errorf("read cached user id: %w", err)
	}
	return domain.ParseUserID(v)
}

// SetCachedUserID stores the user identifier after sign-in/sign-up.
func (s *Service) SetCachedUserID(ctx context.Context, inst domain.InstallationID, id domain.UserID) error {
	if err := s.kv.SetItem(ctx, userIDKey(inst), id.String()); err != nil {
		return fmt.Errorf("write cached user id: %w", err)
	}
	return nil
}

// All aggregates the installation's preferences.
func (s *Service) All(ctx context.Context, inst domain.InstallationID) (Preferences, error) {
	bio, err := s.BiometricEnabled(ctx, inst)
	if err != nil {
		return Preferences{}, err
	}
	theme, err := s.Theme(ctx, inst)
	if err != nil {
		return Preferences{}, err
	}
	p := Preferences{BiometricEnabled: bio, Theme: theme}
	if uid, err := s.CachedUserID(ctx, inst); err == nil {
		p.CachedUserID = uid.String()
	}
	return p, nil
}
