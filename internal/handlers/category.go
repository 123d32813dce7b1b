// internal/handlers/category.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type CategoryHandler struct {
	catalog  CatalogReader
	admin    CatalogCoordinator
	pageSize int
}

func NewCategoryHandler(catalog CatalogReader, admin CatalogCoordinator, pageSize int) *CategoryHandler {
	return &CategoryHandler{
		catalog:  catalog,
		admin:    admin,
		pageSize: pageSize,
	}
}

// GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context(), services.CategoryFilter{
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, categories)
}

// GET /categories/:slug
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, category)
}

// GET /categories/:slug/products
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	filter := productFilter(c, h.pageSize)

	products, total, err := h.catalog.ListCategoryProducts(c.Request.Context(), c.Param("slug"), filter)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, filter.PaginationParams))
}

// DELETE /categories/:slug
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	h.deactivate(c, false)
}

// DELETE /categories/:slug/force
func (h *CategoryHandler) ForceDeleteCategory(c *gin.Context) {
	h.deactivate(c, true)
}

func (h *CategoryHandler) deactivate(c *gin.Context, force bool) {
	lang := utils.GetLangFromContext(c)

	result, err := h.admin.DeactivateCategory(c.Request.Context(), c.Param("slug"), force)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	message := i18n.T(lang, i18n.KeyCategoryDeleted)
	if force {
		message = i18n.T(lang, i18n.KeyCategoryForceDeleted, result.DeletedProductsCount)
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
		"result":  result,
	})
}

// POST /categories/bulk-delete
func (h *CategoryHandler) BulkDeleteCategories(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if force := queryBool(c, "force"); force != nil {
		req.Force = *force
	}

	result, err := h.admin.BulkDeactivateCategories(c.Request.Context(), req.IDs, req.Force)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoriesBulkDeleted, result.DeletedCount),
		"result":  result,
	})
}
