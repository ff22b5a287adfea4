package middleware

import (
	"log/slog"
	"time"

	"skyview/utils/logger"

	"github.com/labstack/echo/v4"
)

// quietPaths are polled by probes and scrapers and would drown the access log.
var quietPaths = map[string]struct{}{
	"/v1/health": {},
	"/metrics":   {},
}

func LoggingMiddleware(baseLogger *slog.Logger) echo.MiddlewareFunc {
	contextLogger := logger.NewContextLogger(baseLogger)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			if _, quiet := quietPaths[req.URL.Path]; quiet {
				return next(c)
			}
			ctx := req.Context()
			log := contextLogger.WithContext(ctx)

			// Only the path is logged. Query strings may carry caller secrets.
			log.InfoContext(ctx, "request started",
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
				"user_agent", req.UserAgent(),
			)

			err := next(c)
			if err != nil {
				// Let echo write the response so the status below is the real one.
				c.Error(err)
			}

			duration := time.Since(start)
			res := c.Response()
			status := res.Status

			logAttrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"response_size", res.Size,
			}
			switch {
			case status >= 500:
				log.ErrorContext(ctx, "request completed", logAttrs...)
			case status >= 400:
				log.WarnContext(ctx, "request completed", logAttrs...)
			default:
				log.InfoContext(ctx, "request completed", logAttrs...)
			}

			if err != nil {
				log.ErrorContext(ctx, "request error",
					"method", req.Method,
					"path", req.URL.Path,
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
			}

			return nil
		}
	}
}
