package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// The redis cache keeps the tracking responses under
// `/<prefix>/tracking/<com>/<num>/<variant>` with the TTL set on the key.
type redisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) TrackingCache {
	return &redisCache{
		client: client,
		prefix: prefix,
	}
}

func (m *redisCache) Get(ctx context.Context, com, num, variant string) ([]byte, bool, error) {
	key := Key(m.prefix, com, num, variant)
	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to get tracking from Redis")
	}
	return data, true, nil
}

func (m *redisCache) Put(ctx context.Context, com, num, variant string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := Key(m.prefix, com, num, variant)
	if err := m.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store tracking in Redis")
	}
	logger.ContextKV(ctx, xlog.DEBUG, "key", key, "ttl", ttl)
	return nil
}

func (m *redisCache) Delete(ctx context.Context, com, num, variant string) error {
	if err := m.client.Del(ctx, Key(m.prefix, com, num, variant)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete tracking from Redis")
	}
	return nil
}
