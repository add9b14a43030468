package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookbook/internal/sentinel"
)

func TestMemoryGetUnknownKey(t *testing.T) {
	st := NewMemory()
	_, err := st.GetItem(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	require.NoError(t, st.SetItem(ctx, "theme:abc", "dark"))

	v, err := st.GetItem(ctx, "theme:abc")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, st.SetItem(ctx, "theme:abc", "light"))
	v, err = st.GetItem(ctx, "theme:abc")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, st.DeleteItem(ctx, "theme:abc"))
	_, err = st.GetItem(ctx, "theme:abc")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemoryDeleteIsIdempotent(t *testing.T) {
	st := NewMemory()
	assert.NoError(t, st.DeleteItem(context.Background(), "never-set"))
}
