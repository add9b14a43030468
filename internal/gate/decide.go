// Package gate decides which top-level screen group an installation should be
// presented with, and orchestrates the per-installation session runtime behind
// that decision.
package gate

import "lookbook/internal/session"

// Screen is a top-level screen group of the client.
type Screen string

const (
	ScreenLoading            Screen = "loading"
	ScreenOnboarding         Screen = "onboarding"
	ScreenLogin              Screen = "login"
	ScreenBiometricChallenge Screen = "biometric_challenge"
	ScreenMainApp            Screen = "main_app"
)

// Decide maps session state plus the biometric preference to exactly one
// screen. Pure and total: every input combination yields a defined screen.
//
// Rules are evaluated top to bottom, first match wins:
//  1. Not ready yet: show nothing but the loading state.
//  2. Authenticated with the biometric gate armed and not yet passed this
//     foreground session: the challenge, never a flash of the main app.
//  3. Authenticated otherwise: the main app.
//  4. Signed out, onboarding not dismissed: onboarding.
//  5. Signed out, onboarding dismissed: login.
func Decide(s session.Snapshot, biometricEnabled, challengePassed bool) Screen {
	switch {
	case !s.AuthReady:
		return ScreenLoading
	case s.Authenticated && biometricEnabled && !challengePassed:
		return ScreenBiometricChallenge
	case s.Authenticated:
		return ScreenMainApp
	case !s.HasSeenOnboarding:
		return ScreenOnboarding
	default:
		return ScreenLogin
	}
}
