package cutout_cache_port

import (
	"context"
	"time"
)

// BinaryCachePort stores opaque byte payloads with a TTL.
// Get returns false on a miss; cache failures are never surfaced to callers.
type BinaryCachePort interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}
