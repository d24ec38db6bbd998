package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/expressmcp/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "/tracking/zhongtong/7310", store.Key("", "ZhongTong", "7310", ""))
	assert.Equal(t, "/expressmcp/tracking/jd/JD1/a1b2", store.Key("expressmcp", "jd", "JD1", "a1b2"))
}

func Test_MemoryCache(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store.TimeNowFn = func() time.Time { return now }
	t.Cleanup(func() { store.TimeNowFn = time.Now })

	ctx := context.Background()
	c := store.NewMemoryCache()

	_, ok, err := c.Get(ctx, "jd", "JD1", "v")
	require.NoError(t, err)
	assert.False(t, ok)

	// not cached without TTL
	require.NoError(t, c.Put(ctx, "jd", "JD1", "v", []byte("v0"), 0))
	_, ok, _ = c.Get(ctx, "jd", "JD1", "v")
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "jd", "JD1", "v", []byte("v1"), time.Minute))
	v, ok, err := c.Get(ctx, "jd", "JD1", "v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", string(v))

	// other number
	_, ok, _ = c.Get(ctx, "jd", "JD2", "v")
	assert.False(t, ok)
	// other variant
	_, ok, _ = c.Get(ctx, "jd", "JD1", "w")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "jd", "JD1", "v")
	assert.False(t, ok, "expired")

	require.NoError(t, c.Put(ctx, "jd", "JD1", "v", []byte("v2"), time.Hour))
	require.NoError(t, c.Delete(ctx, "jd", "JD1", "v"))
	_, ok, _ = c.Get(ctx, "jd", "JD1", "v")
	assert.False(t, ok)

	require.NoError(t, store.NewMemoryCache().Delete(ctx, "jd", "JD1", "v"))
}
