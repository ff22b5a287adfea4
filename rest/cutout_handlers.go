package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"skyview/di"
	"skyview/domain"

	"github.com/labstack/echo/v4"
)

func handleCutout(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := newFloatParams(c)
		ra := params.required("ra")
		dec := params.required("dec")
		fov := params.required("fov")
		if err := params.err(); err != nil {
			return handleError(c, err, "cutout")
		}

		req, err := domain.NewCutoutRequest(ra, dec, fov,
			c.QueryParam("survey"),
			c.QueryParam("label"),
			domain.DetailTier(c.QueryParam("detail")),
		)
		if err != nil {
			return handleError(c, err, "cutout")
		}

		result, err := container.CutoutRetrievalUsecase.Retrieve(c.Request().Context(), req)
		if err != nil {
			return handleError(c, err, "cutout")
		}

		cacheState := "miss"
		if result.CacheHit {
			cacheState = "hit"
		}

		h := c.Response().Header()
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
		h.Set("Cache-Control", "private, max-age=300")
		h.Set("X-Cutout-Survey", result.ResolvedSurvey)
		h.Set("X-Cutout-Provider", result.ResolvedProvider.String())
		h.Set("X-Cutout-Resolution", result.Resolution.String())
		h.Set("X-Cutout-Attempts", strconv.Itoa(result.AttemptCount))
		h.Set("X-Cutout-Cache", cacheState)

		return c.Blob(http.StatusOK, result.ContentType, result.Data)
	}
}

func handleCutoutTelemetry(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return c.JSON(http.StatusOK, container.CutoutRetrievalUsecase.Telemetry())
	}
}
