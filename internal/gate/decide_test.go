package gate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"lookbook/internal/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name             string
		snap             session.Snapshot
		biometricEnabled bool
		challengePassed  bool
		want             Screen
	}{
		{
			name: "not ready shows loading",
			snap: session.Snapshot{},
			want: ScreenLoading,
		},
		{
			name: "not ready shows loading even if flags look authenticated",
			snap: session.Snapshot{Authenticated: true, HasSeenOnboarding: true, Token: "t"},
			want: ScreenLoading,
		},
		{
			name: "fresh install shows onboarding",
			snap: session.Snapshot{AuthReady: true},
			want: ScreenOnboarding,
		},
		{
			name: "onboarding dismissed shows login",
			snap: session.Snapshot{AuthReady: true, HasSeenOnboarding: true},
			want: ScreenLogin,
		},
		{
			name: "authenticated shows main app",
			snap: session.Snapshot{AuthReady: true, Authenticated: true, HasSeenOnboarding: true},
			want: ScreenMainApp,
		},
		{
			name:             "authenticated with armed gate shows challenge, not main app",
			snap:             session.Snapshot{AuthReady: true, Authenticated: true, HasSeenOnboarding: true},
			biometricEnabled: true,
			want:             ScreenBiometricChallenge,
		},
		{
			name:             "passed challenge unlocks main app",
			snap:             session.Snapshot{AuthReady: true, Authenticated: true, HasSeenOnboarding: true},
			biometricEnabled: true,
			challengePassed:  true,
			want:             ScreenMainApp,
		},
		{
			name:             "biometric flag is ignored while signed out",
			snap:             session.Snapshot{AuthReady: true, HasSeenOnboarding: true},
			biometricEnabled: true,
			want:             ScreenLogin,
		},
		{
			name: "authenticated without onboarding still shows main app",
			snap: session.Snapshot{AuthReady: true, Authenticated: true},
			want: ScreenMainApp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, tt.biometricEnabled, tt.challengePassed)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDecideTotal enumerates the entire input domain: every combination maps
// to exactly one defined screen.
func TestDecideTotal(t *testing.T) {
	defined := map[Screen]bool{
		ScreenLoading:            true,
		ScreenOnboarding:         true,
		ScreenLogin:              true,
		ScreenBiometricChallenge: true,
		ScreenMainApp:            true,
	}
	bools := []bool{false, true}
	for _, ready := range bools {
		for _, authed := range bools {
			for _, seen := range bools {
				for _, bio := range bools {
					for _, passed := range bools {
						snap := session.Snapshot{
							AuthReady:         ready,
							Authenticated:     authed,
							HasSeenOnboarding: seen,
						}
						got := Decide(snap, bio, passed)
						assert.True(t, defined[got],
							fmt.Sprintf("undefined screen %q for %+v bio=%v passed=%v", got, snap, bio, passed))
					}
				}
			}
		}
	}
}

// TestDecideTokenIrrelevant pins that the token value itself never influences
// the decision; only the flags do.
func TestDecideTokenIrrelevant(t *testing.T) {
	withToken := session.Snapshot{AuthReady: true, Authenticated: true, Token: "jwt"}
	withoutToken := session.Snapshot{AuthReady: true, Authenticated: true}
	assert.Equal(t, Decide(withToken, false, false), Decide(withoutToken, false, false))
	assert.Equal(t, Decide(withToken, true, false), Decide(withoutToken, true, false))
}
