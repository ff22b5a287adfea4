package rate_limiter

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// ClientRateLimiter keeps one token bucket per client key (usually the
// remote IP). The set of tracked clients is bounded; the least recently
// seen client is forgotten first.
type ClientRateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	interval time.Duration
	burst    int
}

func NewClientRateLimiter(interval time.Duration, burst, maxClients int) (*ClientRateLimiter, error) {
	if burst < 1 {
		burst = 1
	}
	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &ClientRateLimiter{
		limiters: cache,
		interval: interval,
		burst:    burst,
	}, nil
}

// Allow reports whether the client identified by key may proceed now.
func (c *ClientRateLimiter) Allow(key string) bool {
	return c.limiterFor(key).Allow()
}

// RetryAfter returns how long key should wait before its next token.
func (c *ClientRateLimiter) RetryAfter(key string) time.Duration {
	r := c.limiterFor(key).Reserve()
	defer r.Cancel()
	return r.Delay()
}

func (c *ClientRateLimiter) limiterFor(key string) *rate.Limiter {
	if limiter, ok := c.limiters.Get(key); ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Every(c.interval), c.burst)
	// Another request for the same key may have raced us here.
	if existing, ok, _ := c.limiters.PeekOrAdd(key, limiter); ok {
		return existing
	}
	return limiter
}
