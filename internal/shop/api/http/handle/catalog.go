package handle

import (
	"net/http"

	"naikai-shop/internal/shop/app/services"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/models"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (ch *CatalogHandler) Catalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ch.catalog.Snapshot()
		jsonResponse(w, http.StatusOK, dto.CatalogResponse{
			Products:   c.Products,
			Promotions: c.Promotions,
			Categories: models.Categories,
			Fallback:   c.ProductsFallback || c.PromotionsFallback,
		})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
