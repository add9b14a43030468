// Package biometric models the device biometric verification flow that gates
// entry into the main app and guards the biometric preference toggle.
package biometric

import (
	"context"
	"sync"

	dErrors "lookbook/pkg/domain-errors"
)

// Verifier is the device biometric primitive collaborator.
type Verifier interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, promptMessage string) (bool, error)
}

// State of a challenge instance.
type State string

const (
	StateIdle      State = "idle"
	StatePrompting State = "prompting"
	StateSuccess   State = "success"
	StateFailure   State = "failure"
)

// Challenge is a short-lived, one-shot verification flow. A failed run can be
// retried; success is terminal for the instance. No timeout is enforced here:
// the platform primitive's own timeout and cancel behavior applies.
// Safe for concurrent use: overlapping runs serialize, and the later one
// observes the earlier outcome.
type Challenge struct {
	verifier Verifier
	prompt   string

	mu    sync.Mutex
	state State
}

// NewChallenge creates an idle challenge with the fixed prompt string shown by
// the platform primitive.
func NewChallenge(verifier Verifier, prompt string) *Challenge {
	return &Challenge{verifier: verifier, prompt: prompt, state: StateIdle}
}

// State reports the current state of the flow.
func (c *Challenge) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run invokes the verification primitive. Idle and Failure both transition to
// Prompting; the outcome lands in Success or Failure. Running an already
// successful challenge is a no-op reporting success.
func (c *Challenge) Run(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSuccess {
		return true, nil
	}

	c.state = StatePrompting
	ok, err := c.verifier.Authenticate(ctx, c.prompt)
	if err != nil {
		c.state = StateFailure
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "biometric verification unavailable")
	}
	if !ok {
		c.state = StateFailure
		return false, nil
	}
	c.state = StateSuccess
	return true, nil
}

// Available reports whether the device can run a challenge at all: hardware
// present and at least one biometric enrolled.
func Available(ctx context.Context, v Verifier) (bool, error) {
	hw, err := v.HasHardware(ctx)
	if err != nil {
		return false, err
	}
	if !hw {
		return false, nil
	}
	return v.IsEnrolled(ctx)
}

// Simulator is a Verifier with fixed answers, standing in for the device
// primitive in development the way the client simulated biometrics on
// emulators.
type Simulator struct {
	Hardware bool
	Enrolled bool
	Result   bool
}

func (s Simulator) HasHardware(context.Context) (bool, error) { return s.Hardware, nil }
func (s Simulator) IsEnrolled(context.Context) (bool, error)  { return s.Enrolled, nil }
func (s Simulator) Authenticate(context.Context, string) (bool, error) {
	return s.Result, nil
}
