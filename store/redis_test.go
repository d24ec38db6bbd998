package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/effective-security/expressmcp/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"
)

func Test_RedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{
				"ALLOW_EMPTY_PASSWORD=yes",
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(ctx))
	})

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)

	client := redis.NewClient(options)
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	root := fmt.Sprintf("test-%d", time.Now().Unix())
	c := store.NewRedisCache(client, root)

	_, ok, err := c.Get(ctx, "zhongtong", "7310", "desc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "zhongtong", "7310", "desc", []byte(`{"message":"ok"}`), time.Minute))
	v, ok, err := c.Get(ctx, "zhongtong", "7310", "desc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"message":"ok"}`, string(v))

	_, ok, err = c.Get(ctx, "zhongtong", "7310", "asc")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, store.Key(root, "zhongtong", "7310", "desc")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, c.Put(ctx, "zhongtong", "7311", "desc", []byte("no ttl"), 0))
	_, ok, err = c.Get(ctx, "zhongtong", "7311", "desc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx, "zhongtong", "7310", "desc"))
	_, ok, err = c.Get(ctx, "zhongtong", "7310", "desc")
	require.NoError(t, err)
	assert.False(t, ok)
}
