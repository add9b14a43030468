package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lookbook/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	minted := NewUserID()

	parsed, err := ParseUserID(minted.String())
	require.NoError(t, err)
	assert.Equal(t, minted, parsed)

	_, err = ParseUserID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParseUserID("not-a-uuid")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseInstallationID(t *testing.T) {
	minted := NewInstallationID()

	parsed, err := ParseInstallationID(minted.String())
	require.NoError(t, err)
	assert.Equal(t, minted, parsed)

	_, err = ParseInstallationID("not-a-uuid")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseProductID(t *testing.T) {
	id, err := ParseProductID("linen-overshirt")
	require.NoError(t, err)
	assert.Equal(t, ProductID("linen-overshirt"), id)

	_, err = ParseProductID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.True(t, InstallationID{}.IsNil())
	assert.False(t, NewUserID().IsNil())
	assert.False(t, NewInstallationID().IsNil())
}
