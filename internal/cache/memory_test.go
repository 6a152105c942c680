package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "key", []byte("payload"))
	payload, ok := store.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), payload)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set(ctx, "key", []byte("payload"))

	_, ok := store.Get(ctx, "key")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(ctx, "key")
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestMemoryStoreDeletePattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	store.Set(ctx, "group-a:greedy", []byte("1"))
	store.Set(ctx, "group-a:minCashFlow", []byte("2"))
	store.Set(ctx, "group-b:greedy", []byte("3"))

	store.DeletePattern(ctx, "group-a:*")

	_, ok := store.Get(ctx, "group-a:greedy")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "group-a:minCashFlow")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "group-b:greedy")
	assert.True(t, ok)
}
