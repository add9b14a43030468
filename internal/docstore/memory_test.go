package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookbook/internal/sentinel"
)

func TestMemoryGetUnknownDocument(t *testing.T) {
	st := NewMemory()
	_, err := st.Get(context.Background(), "users", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	require.NoError(t, st.Set(ctx, "users", "u1", Document{"fullName": "Ada", "email": "ada@example.com"}))

	doc, err := st.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc["fullName"])
	assert.Equal(t, "ada@example.com", doc["email"])
}

func TestMemoryUpdateMergesPartial(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	require.NoError(t, st.Set(ctx, "users", "u1", Document{"fullName": "Ada", "email": "ada@example.com"}))

	require.NoError(t, st.Update(ctx, "users", "u1", Document{"fullName": "Ada King"}))

	doc, err := st.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", doc["fullName"])
	assert.Equal(t, "ada@example.com", doc["email"], "untouched fields must survive the patch")
}

func TestMemoryUpdateUnknownDocument(t *testing.T) {
	st := NewMemory()
	err := st.Update(context.Background(), "users", "missing", Document{"fullName": "Ada"})
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	require.NoError(t, st.Set(ctx, "products", "p1", Document{"name": "Scarf"}))
	require.NoError(t, st.Set(ctx, "products", "p2", Document{"name": "Coat"}))

	docs, err := st.List(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	empty, err := st.List(ctx, "users")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	require.NoError(t, st.Set(ctx, "users", "u1", Document{"fullName": "Ada"}))

	doc, err := st.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc["fullName"] = "Mallory"

	again, err := st.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again["fullName"], "callers must not be able to mutate stored documents")
}
