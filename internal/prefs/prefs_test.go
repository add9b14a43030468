package prefs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookbook/internal/prefs"
	"lookbook/internal/prefs/store"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

func newService(t *testing.T, systemScheme prefs.Theme) (*prefs.Service, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return prefs.NewService(kv, systemScheme, logger), kv
}

func TestBiometricFlagDefaultsDisabled(t *testing.T) {
	svc, _ := newService(t, prefs.ThemeLight)
	enabled, err := svc.BiometricEnabled(context.Background(), domain.NewInstallationID())
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestBiometricFlagRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, prefs.ThemeLight)
	inst := domain.NewInstallationID()

	require.NoError(t, svc.SetBiometricEnabled(ctx, inst, true))
	enabled, err := svc.BiometricEnabled(ctx, inst)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, svc.SetBiometricEnabled(ctx, inst, false))
	enabled, err = svc.BiometricEnabled(ctx, inst)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestThemeDefaultsToSystemScheme(t *testing.T) {
	ctx := context.Background()
	inst := domain.NewInstallationID()

	svc, _ := newService(t, prefs.ThemeDark)
	theme, err := svc.Theme(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, theme)

	svc, _ = newService(t, prefs.ThemeLight)
	theme, err = svc.Theme(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeLight, theme)
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, prefs.ThemeLight)
	inst := domain.NewInstallationID()

	require.NoError(t, svc.SetTheme(ctx, inst, prefs.ThemeDark))
	theme, err := svc.Theme(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, theme)
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	svc, _ := newService(t, prefs.ThemeLight)
	err := svc.SetTheme(context.Background(), domain.NewInstallationID(), prefs.Theme("sepia"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCorruptStoredThemeFallsBackToSystem(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t, prefs.ThemeDark)
	inst := domain.NewInstallationID()

	require.NoError(t, kv.SetItem(ctx, "theme:"+inst.String(), "garbage"))

	theme, err := svc.Theme(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, theme)
}

func TestCachedUserID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, prefs.ThemeLight)
	inst := domain.NewInstallationID()

	_, err := svc.CachedUserID(ctx, inst)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	userID := domain.NewUserID()
	require.NoError(t, svc.SetCachedUserID(ctx, inst, userID))

	got, err := svc.CachedUserID(ctx, inst)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAllAggregatesPreferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, prefs.ThemeLight)
	inst := domain.NewInstallationID()
	userID := domain.NewUserID()

	require.NoError(t, svc.SetBiometricEnabled(ctx, inst, true))
	require.NoError(t, svc.SetTheme(ctx, inst, prefs.ThemeDark))
	require.NoError(t, svc.SetCachedUserID(ctx, inst, userID))

	all, err := svc.All(ctx, inst)
	require.NoError(t, err)
	assert.True(t, all.BiometricEnabled)
	assert.Equal(t, prefs.ThemeDark, all.Theme)
	assert.Equal(t, userID.String(), all.CachedUserID)
}

func TestAllOmitsMissingCachedUserID(t *testing.T) {
	svc, _ := newService(t, prefs.ThemeLight)
	all, err := svc.All(context.Background(), domain.NewInstallationID())
	require.NoError(t, err)
	assert.Empty(t, all.CachedUserID)
}
