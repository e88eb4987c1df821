package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryCache(now *time.Time) *MemoryCache {
	m := NewMemoryCache()
	m.now = func() time.Time { return *now }
	return m
}

func Test_MemoryCache_SetThenGet_ReturnsValue(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := newTestMemoryCache(&now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute))

	var got map[string]string
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", got["a"])
}

func Test_MemoryCache_EntryExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := newTestMemoryCache(&now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "revoked:1", true, 30*time.Second))

	ok, _ := m.Exists(ctx, "revoked:1")
	assert.True(t, ok)

	ttl, _ := m.TTL(ctx, "revoked:1")
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(31 * time.Second)

	ok, _ = m.Exists(ctx, "revoked:1")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Sweep())
}

func Test_MemoryCache_ZeroTTL_NeverExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := newTestMemoryCache(&now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", 1, 0))
	now = now.Add(24 * time.Hour)

	ok, _ := m.Exists(ctx, "k")
	assert.True(t, ok)
	ttl, _ := m.TTL(ctx, "k")
	assert.Zero(t, ttl)
}

func Test_MemoryCache_Delete(t *testing.T) {
	m := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))
	require.NoError(t, m.Delete(ctx, "a", "b"))

	var v int
	found, err := m.Get(ctx, "a", &v)
	require.NoError(t, err)
	assert.False(t, found)
}
