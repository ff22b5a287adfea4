package binary_cache_gateway

import (
	"context"
	"errors"
	"time"

	"skyview/driver/cache_driver"
	"skyview/utils/logger"
	"skyview/utils/metrics"
)

// SharedStore is the tier-2 backend. cache_driver.RedisStore implements it.
type SharedStore interface {
	Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// TwoTierCache implements BinaryCachePort on top of an in-process store and
// an optional shared store. Shared-tier failures are logged once, switch the
// tier off and are never returned to callers.
type TwoTierCache struct {
	name       string
	memory     *cache_driver.MemoryStore
	shared     SharedStore
	state      *sharedTierSwitch
	defaultTTL time.Duration
}

// NewTwoTierCache creates a cache. A nil shared store starts the tier disabled.
func NewTwoTierCache(name string, memory *cache_driver.MemoryStore, shared SharedStore, defaultTTL time.Duration) *TwoTierCache {
	initial := SharedTierDisabled
	if shared != nil {
		initial = SharedTierEnabled
	}
	c := &TwoTierCache{
		name:       name,
		memory:     memory,
		shared:     shared,
		state:      newSharedTierSwitch(initial),
		defaultTTL: defaultTTL,
	}
	metrics.SharedCacheEnabled.WithLabelValues(name).Set(boolGauge(initial == SharedTierEnabled))
	return c
}

// SharedState reports the current shared tier state.
func (c *TwoTierCache) SharedState() SharedTierState {
	return c.state.Load()
}

func (c *TwoTierCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, _, ok := c.memory.Get(key); ok {
		return data, true
	}
	if c.state.Load() != SharedTierEnabled {
		return nil, false
	}

	data, ttl, ok, err := c.shared.Get(ctx, key)
	if err != nil {
		c.sharedFailed(ctx, "get", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.memory.Set(key, data, ttl)
	return data, true
}

func (c *TwoTierCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.memory.Set(key, data, ttl)

	if c.state.Load() != SharedTierEnabled {
		return
	}
	if err := c.shared.Set(ctx, key, data, ttl); err != nil {
		c.sharedFailed(ctx, "set", err)
	}
}

func (c *TwoTierCache) sharedFailed(ctx context.Context, op string, err error) {
	// A caller that went away is not a tier failure.
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return
	}
	if c.state.Disable() {
		metrics.SharedCacheEnabled.WithLabelValues(c.name).Set(0)
		logger.FromContext(ctx).Warn("Shared cache tier disabled after error",
			"cache", c.name,
			"operation", op,
			"error", err)
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
