package rest

import (
	"net/http"
	"strconv"
	"strings"

	"skyview/domain"
	"skyview/utils/errors"
	"skyview/utils/logger"

	"github.com/labstack/echo/v4"
)

// handleError logs err with request context and converts it to an HTTP error.
// Provider details never leave the process; clients get a generic message.
func handleError(c echo.Context, err error, operation string) error {
	appErr := errors.Classify(err, map[string]interface{}{
		"path":       c.Request().URL.Path,
		"method":     c.Request().Method,
		"request_id": c.Response().Header().Get("X-Request-ID"),
	})

	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	switch appErr.Code {
	case errors.ErrCodeValidation:
		log.InfoContext(ctx, "request rejected", "operation", operation, "error", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.ErrCodeUnavailable:
		errors.LogError(log, appErr, operation)
		return echo.NewHTTPError(http.StatusServiceUnavailable, domain.ErrRetrievalUnavailable.Error())
	case errors.ErrCodeRateLimit:
		return echo.NewHTTPError(http.StatusTooManyRequests, appErr.Message)
	default:
		errors.LogError(log, appErr, operation)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// floatParams reads required float query parameters. Parse failures are
// collected per field so the caller can report them together.
type floatParams struct {
	c      echo.Context
	fields map[string]string
}

func newFloatParams(c echo.Context) *floatParams {
	return &floatParams{c: c, fields: make(map[string]string)}
}

func (p *floatParams) required(name string) float64 {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		p.fields[name] = "is required"
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fields[name] = "must be a number"
		return 0
	}
	return v
}

func (p *floatParams) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: p.fields}
}
