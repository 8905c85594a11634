package handler

import (
	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// PricesHandler publishes the catalog.
type PricesHandler struct {
	asset string
}

// NewPricesHandler creates a new PricesHandler quoting prices in asset.
func NewPricesHandler(asset string) *PricesHandler {
	return &PricesHandler{asset: asset}
}

// List handles GET /api/v1/prices?kind=service|wash.
func (h *PricesHandler) List(c *gin.Context) {
	var filter domain.Kind
	if k := c.Query("kind"); k != "" {
		filter = domain.Kind(k)
		if !filter.Valid() {
			response.Error(c, apperror.Validation("kind must be service or wash"))
			return
		}
	}

	items := make([]dto.PriceResponse, 0, 9)
	for _, e := range domain.Catalog() {
		if filter != "" && e.Kind != filter {
			continue
		}
		items = append(items, dto.PriceResponse{
			Kind:    string(e.Kind),
			Type:    e.Subtype,
			Price:   e.Price,
			Asset:   h.asset,
			Default: e.Default,
		})
	}

	response.OK(c, items)
}
