package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReceiptStore_SetAndGet(t *testing.T) {
	store := NewInMemoryReceiptStore()
	defer store.Close()
	ctx := context.Background()

	err := store.Set(ctx, "key-1", []byte(`{"total":"80"}`), time.Minute)
	require.NoError(t, err)

	value, found, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"total":"80"}`), value)
}

func TestInMemoryReceiptStore_MissingKey(t *testing.T) {
	store := NewInMemoryReceiptStore()
	defer store.Close()

	_, found, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryReceiptStore_ExpiredEntry(t *testing.T) {
	store := NewInMemoryReceiptStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key-1", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, found, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryReceiptStore_OverwriteKeepsLatest(t *testing.T) {
	store := NewInMemoryReceiptStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key-1", []byte("first"), time.Minute))
	require.NoError(t, store.Set(ctx, "key-1", []byte("second"), time.Minute))

	value, found, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), value)
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryReceiptStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryReceiptStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
