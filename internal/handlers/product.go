// internal/handlers/product.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/i18n"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

type ProductHandler struct {
	catalogService *services.CatalogService
}

func NewProductHandler(catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	req := listRequestFromQuery(c)

	list, err := h.catalogService.ListProducts(c.Request.Context(), req)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}

	result := utils.CreatePaginationResult(list.Products, int64(list.Total), list.Pagination)
	utils.PaginatedResponse(c, result, gin.H{
		"filters":             list.Filters,
		"active_filter_count": list.ActiveFilterCount,
		"facets":              list.Facets,
	})
}

func listRequestFromQuery(c *gin.Context) services.ListRequest {
	req := services.ListRequest{
		Category:  strings.TrimSpace(c.Query("category")),
		Search:    strings.TrimSpace(c.Query("search")),
		PriceChip: strings.TrimSpace(c.Query("price_chip")),
		Sort:      c.Query("sort"),
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			req.InStockOnly = &inStock
		}
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseInt(priceMinStr, 10, 64); err == nil {
			req.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseInt(priceMaxStr, 10, 64); err == nil {
			req.PriceMax = &priceMax
		}
	}

	// Accept both ?subcategory=a&subcategory=b and ?subcategory=a,b
	for _, raw := range c.QueryArray("subcategory") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Subcategories = append(req.Subcategories, tag)
			}
		}
	}

	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))
	return req
}

// GET /products/facets
func (h *ProductHandler) GetFacets(c *gin.Context) {
	facets, err := h.catalogService.Facets(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, facets)
}

// GET /products/promos
func (h *ProductHandler) GetPromotions(c *gin.Context) {
	products, err := h.catalogService.Promotions(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /products/flash-sale
func (h *ProductHandler) GetFlashSale(c *gin.Context) {
	products, err := h.catalogService.FlashSale(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	detail, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}

	utils.SuccessResponse(c, detail)
}
