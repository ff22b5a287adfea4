package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"skyview/utils/rate_limiter"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles each client IP with its own token bucket.
// A nil limiter disables throttling.
func RateLimitMiddleware(limiter *rate_limiter.ClientRateLimiter, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			client := c.RealIP()
			if limiter.Allow(client) {
				return next(c)
			}

			wait := limiter.RetryAfter(client)
			seconds := int(math.Ceil(wait.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))

			if logger != nil {
				logger.WarnContext(c.Request().Context(), "rate limit exceeded",
					"remote_addr", client,
					"path", c.Request().URL.Path,
					"retry_after_s", seconds,
				)
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
	}
}
