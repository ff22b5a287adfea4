package rest

import (
	"net/http"

	"skyview/config"
	"skyview/di"
	middleware_custom "skyview/middleware"
	"skyview/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config) {
	// Client IPs come from the peer address only; forwarding headers are caller-controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	// 1. Tracing first so every later middleware runs inside the server span
	if cfg.OTel.Enabled {
		e.Use(otelecho.Middleware(cfg.OTel.ServiceName))
		e.Use(middleware_custom.OTelStatusMiddleware())
	}

	// 2. Request ID
	e.Use(middleware_custom.RequestIDMiddleware())

	// 3. Recovery
	e.Use(middleware.Recover())

	// 4. Security headers
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	// 5. Access log
	e.Use(middleware_custom.LoggingMiddleware(logger.Logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.GET("/health", handleHealth(container))

	registerSkyRoutes(v1, container)
	registerAdminRoutes(v1, container)
}

func registerSkyRoutes(v1 *echo.Group, container *di.ApplicationComponents) {
	sky := v1.Group("/sky")
	sky.GET("/cutout", handleCutout(container), middleware_custom.RateLimitMiddleware(container.RateLimiter, logger.Logger))
	sky.GET("/nearby", handleNearby(container))
}

func registerAdminRoutes(v1 *echo.Group, container *di.ApplicationComponents) {
	guard := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
		}
	}
	if container.AdminAuth != nil {
		guard = container.AdminAuth.RequireAdmin()
	}

	admin := v1.Group("/admin", guard)
	admin.GET("/cutout/telemetry", handleCutoutTelemetry(container))
}
