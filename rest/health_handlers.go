package rest

import (
	"net/http"

	"skyview/di"
	"skyview/domain"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status      string              `json:"status"`
	Providers   []domain.ProviderID `json:"providers"`
	SharedCache map[string]string   `json:"shared_cache"`
}

func handleHealth(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := healthResponse{
			Status:      "healthy",
			SharedCache: map[string]string{},
		}
		if container.CutoutRetrievalUsecase != nil {
			resp.Providers = container.CutoutRetrievalUsecase.Providers()
		}
		if container.CutoutCache != nil {
			resp.SharedCache[di.CutoutCacheName] = container.CutoutCache.SharedState().String()
		}
		if container.CatalogCache != nil {
			resp.SharedCache[di.CatalogCacheName] = container.CatalogCache.SharedState().String()
		}
		return c.JSON(http.StatusOK, resp)
	}
}
