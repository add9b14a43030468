// Package identity integrates the hosted identity provider: sign-in, sign-up,
// sign-out, token fetches, and the auth-state stream the session container is
// driven by.
package identity

import (
	"context"

	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// Identity describes a signed-in user as reported by the provider.
type Identity struct {
	UserID      domain.UserID
	Email       string
	DisplayName string
}

// Provider is the identity provider collaborator. Auth state is tracked per
// device installation, matching how the hosted SDK scopes its auth instance to
// one app install.
//
// Error Contract: SignIn and SignUp fail with domain errors carrying one of
// the provider codes (CodeInvalidEmail, CodeUserNotFound, CodeInvalidCredential,
// CodeNetworkRequestFailed, CodeEmailAlreadyInUse, CodeWeakPassword,
// CodeOperationNotAllowed).
type Provider interface {
	SignIn(ctx context.Context, inst domain.InstallationID, email, password string) (*Identity, error)
	SignUp(ctx context.Context, inst domain.InstallationID, email, password, fullName string) (*Identity, error)
	SignOut(ctx context.Context, inst domain.InstallationID) error

	// Token returns the current identity token for the installation's
	// signed-in user. May suspend on network; honors ctx cancellation.
	Token(ctx context.Context, inst domain.InstallationID) (string, error)

	// Watch returns a stream of auth-state changes for the installation. A nil
	// Identity means signed-out. The channel is closed when ctx is cancelled.
	// The current state is delivered as the first element.
	Watch(ctx context.Context, inst domain.InstallationID) (<-chan *Identity, error)
}

// Fixed user-facing messages per provider error code. The client renders these
// verbatim in a transient toast; anything unrecognized falls back to the
// generic message for the flow.
var userMessages = map[dErrors.Code]string{
	dErrors.CodeInvalidEmail:         "Invalid email address.",
	dErrors.CodeUserNotFound:         "No account found with this email.",
	dErrors.CodeInvalidCredential:    "Invalid login credential. Please check & retry again",
	dErrors.CodeNetworkRequestFailed: "Network error. Please check your connection.",
	dErrors.CodeEmailAlreadyInUse:    "An account already exists with this email.",
	dErrors.CodeWeakPassword:         "Weak password. Please use 6+ characters.",
	dErrors.CodeOperationNotAllowed:  "This signup method is currently disabled.",
}

const (
	fallbackSignInMessage = "Login failed. Please try again."
	fallbackSignUpMessage = "Signup failed. Please try again."
)

// SignInMessage maps a provider error to the fixed sign-in toast message.
func SignInMessage(err error) string {
	if msg, ok := userMessages[dErrors.CodeOf(err)]; ok {
		return msg
	}
	return fallbackSignInMessage
}

// SignUpMessage maps a provider error to the fixed sign-up toast message.
func SignUpMessage(err error) string {
	if msg, ok := userMessages[dErrors.CodeOf(err)]; ok {
		return msg
	}
	return fallbackSignUpMessage
}
