// Package store caches tracking responses, in memory or in Redis.
package store

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp", "store")

// TrackingCache keeps the raw vendor responses by company and number.
// The variant tells apart the responses of the same shipment
// queried with different options.
type TrackingCache interface {
	// Get returns the cached value, or false if not found or expired
	Get(ctx context.Context, com, num, variant string) ([]byte, bool, error)
	// Put stores the value for the TTL
	Put(ctx context.Context, com, num, variant string, value []byte, ttl time.Duration) error
	// Delete removes the value
	Delete(ctx context.Context, com, num, variant string) error
}

// Key returns the cache key of a shipment.
func Key(prefix, com, num, variant string) string {
	return path.Join("/", prefix, "tracking", strings.ToLower(com), num, variant)
}
