package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeUserNotFound, "no account for email")

	assert.Equal(t, "no account for email", err.Error())
	assert.True(t, HasCode(err, CodeUserNotFound))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestWrapPreservesExistingDomainCode(t *testing.T) {
	inner := New(CodeWeakPassword, "password too short")
	wrapped := Wrap(inner, CodeInternal, "sign-up failed")

	assert.True(t, HasCode(wrapped, CodeWeakPassword),
		"wrapping must not overwrite an existing domain code")
	assert.Equal(t, "sign-up failed", wrapped.Error())
	assert.True(t, errors.Is(wrapped, inner))
}

func TestWrapPlainError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeNetworkRequestFailed, "provider unreachable")

	assert.True(t, HasCode(wrapped, CodeNetworkRequestFailed))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestHasCodeThroughWrappingChain(t *testing.T) {
	inner := New(CodeInvalidCredential, "credential mismatch")
	outer := fmt.Errorf("sign-in: %w", inner)

	assert.True(t, HasCode(outer, CodeInvalidCredential))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeEmailAlreadyInUse, CodeOf(New(CodeEmailAlreadyInUse, "taken")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))
	assert.Equal(t, CodeInternal, CodeOf(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeNotFound, "first")
	b := New(CodeNotFound, "second")
	c := New(CodeConflict, "other")

	require.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestErrorFallsBackToCode(t *testing.T) {
	err := New(CodeTimeout, "")
	assert.Equal(t, "timeout", err.Error())
}
