package rest

import (
	stderrors "errors"
	"net/http"

	"skyview/di"
	"skyview/domain"

	"github.com/labstack/echo/v4"
)

func handleNearby(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := newFloatParams(c)
		q := domain.NearbyQuery{
			RA:     params.required("ra"),
			Dec:    params.required("dec"),
			Radius: params.required("radius"),
		}
		if err := params.err(); err != nil {
			return handleError(c, err, "nearby")
		}

		result, err := container.CatalogUsecase.Nearby(c.Request().Context(), q)
		switch {
		case err == nil:
		case stderrors.Is(err, domain.ErrCatalogDisabled):
			return echo.NewHTTPError(http.StatusServiceUnavailable, domain.ErrCatalogDisabled.Error())
		case stderrors.Is(err, domain.ErrCatalogUnavailable):
			return echo.NewHTTPError(http.StatusServiceUnavailable, domain.ErrCatalogUnavailable.Error())
		default:
			return handleError(c, err, "nearby")
		}

		cacheState := "miss"
		if result.CacheHit {
			cacheState = "hit"
		}
		c.Response().Header().Set("X-Catalog-Cache", cacheState)
		return c.JSONBlob(http.StatusOK, result.Body)
	}
}
