// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type ProductHandler struct {
	catalog  CatalogReader
	admin    CatalogCoordinator
	pageSize int
}

func NewProductHandler(catalog CatalogReader, admin CatalogCoordinator, pageSize int) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		admin:    admin,
		pageSize: pageSize,
	}
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := productFilter(c, h.pageSize)

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, filter.PaginationParams))
}

// GET /products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	filter := productFilter(c, h.pageSize)
	if filter.Search == "" {
		filter.Search = c.Query("q")
	}

	products, total, err := h.catalog.SearchProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, filter.PaginationParams))
}

// GET /products/featured
func (h *ProductHandler) FeaturedProducts(c *gin.Context) {
	products, err := h.catalog.FeaturedProducts(c.Request.Context())
	h.curated(c, products, err)
}

// GET /products/popular
func (h *ProductHandler) PopularProducts(c *gin.Context) {
	products, err := h.catalog.PopularProducts(c.Request.Context())
	h.curated(c, products, err)
}

// GET /products/latest
func (h *ProductHandler) LatestProducts(c *gin.Context) {
	products, err := h.catalog.LatestProducts(c.Request.Context())
	h.curated(c, products, err)
}

func (h *ProductHandler) curated(c *gin.Context, products []models.Product, err error) {
	if err != nil {
		respondError(c, err, "product")
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /products/filters-info
func (h *ProductHandler) FiltersInfo(c *gin.Context) {
	info, err := h.catalog.FiltersInfo(c.Request.Context())
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, info)
}

// GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/:slug/reviews
func (h *ProductHandler) ProductReviews(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pageSize)

	reviews, total, err := h.catalog.ProductReviews(c.Request.Context(), c.Param("slug"), params)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reviews, total, params))
}

// GET /products/:slug/reviews/stats
func (h *ProductHandler) ReviewStats(c *gin.Context) {
	stats, err := h.catalog.ReviewStats(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, stats)
}

// DELETE /products/:slug
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.admin.DeactivateProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
		"result":  result,
	})
}

// POST /products/bulk-delete
func (h *ProductHandler) BulkDeleteProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admin.BulkDeactivateProducts(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductBulkDeleted, result.DeletedCount),
		"result":  result,
	})
}
