package handler

import (
	"github.com/gin-gonic/gin"

	"trendora/storefront/internal/service"
	"trendora/storefront/pkg/response"
)

type ProductHandler struct {
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	response.Success(c, gin.H{"products": h.catalog.Products()})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, ok := h.catalog.Lookup(c.Param("productId"))
	if !ok {
		response.NotFound(c, "product not found")
		return
	}
	response.Success(c, product)
}
