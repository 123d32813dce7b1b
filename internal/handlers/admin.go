// internal/handlers/admin.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

// AdminHandler serves the catalog management endpoints under /admin.
type AdminHandler struct {
	catalog     CatalogReader
	coordinator CatalogCoordinator
	editor      CatalogEditor
	media       MediaUploader
	stats       DashboardProvider
	pageSize    int
}

func NewAdminHandler(catalog CatalogReader, coordinator CatalogCoordinator, editor CatalogEditor, media MediaUploader, stats DashboardProvider, pageSize int) *AdminHandler {
	return &AdminHandler{
		catalog:     catalog,
		coordinator: coordinator,
		editor:      editor,
		media:       media,
		stats:       stats,
		pageSize:    pageSize,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/categories
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context(), services.CategoryFilter{
		Search:          strings.TrimSpace(c.Query("search")),
		IsActive:        queryBool(c, "is_active"),
		IncludeInactive: true,
	})
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, categories)
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.editor.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.CreatedResponse(c, category)
}

// PATCH /admin/categories/:slug
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var req services.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.editor.UpdateCategory(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, category)
}

// POST /admin/categories/:slug/restore
func (h *AdminHandler) RestoreCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	category, err := h.coordinator.RestoreCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryRestored),
		"category": category,
	})
}

// POST /admin/categories/:slug/image
func (h *AdminHandler) UploadCategoryImage(c *gin.Context) {
	upload, ok := h.upload(c, "categories")
	if !ok {
		return
	}

	image := upload.URL
	category, err := h.editor.UpdateCategory(c.Request.Context(), c.Param("slug"), &services.UpdateCategoryRequest{Image: &image})
	if err != nil {
		respondError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"category": category,
		"upload":   upload,
	})
}

// GET /admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	filter := productFilter(c, h.pageSize)
	filter.IncludeInactive = true
	filter.IsActive = queryBool(c, "is_active")

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, filter.PaginationParams))
}

// GET /admin/products/:slug
func (h *AdminHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductForAdmin(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.editor.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, product)
}

// PATCH /admin/products/:slug
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.editor.UpdateProduct(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /admin/products/:slug/restore
func (h *AdminHandler) RestoreProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.coordinator.RestoreProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	body := gin.H{
		"message": i18n.T(lang, i18n.KeyProductRestored),
		"product": result.Product,
	}
	if result.Warning != "" {
		body["warning"] = result.Warning
	}
	utils.SuccessResponse(c, body)
}

// DELETE /admin/products/:slug/purge
func (h *AdminHandler) PurgeProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.coordinator.HardDeleteProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductPurged),
		"result":  result,
	})
}

// POST /admin/products/:slug/main-image
func (h *AdminHandler) UploadMainImage(c *gin.Context) {
	upload, ok := h.upload(c, "products")
	if !ok {
		return
	}

	image := upload.URL
	product, err := h.editor.UpdateProduct(c.Request.Context(), c.Param("slug"), &services.UpdateProductRequest{MainImage: &image})
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
		"upload":  upload,
	})
}

// POST /admin/products/:slug/images
func (h *AdminHandler) UploadProductImage(c *gin.Context) {
	upload, ok := h.upload(c, "products")
	if !ok {
		return
	}

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	image, err := h.editor.AddProductImage(c.Request.Context(), c.Param("slug"), &services.AddImageRequest{
		Image:     upload.URL,
		AltText:   c.PostForm("alt_text"),
		SortOrder: sortOrder,
	})
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, image)
}

// DELETE /admin/images/:id
func (h *AdminHandler) DeleteProductImage(c *gin.Context) {
	id, ok := idParam(c, "id", "image")
	if !ok {
		return
	}

	if err := h.editor.DeleteProductImage(c.Request.Context(), id); err != nil {
		respondError(c, err, "image")
		return
	}

	utils.NoContentResponse(c)
}

// POST /admin/products/:slug/specifications
func (h *AdminHandler) AddSpecification(c *gin.Context) {
	var req services.SpecificationRequest
	if !bindJSON(c, &req) {
		return
	}

	spec, err := h.editor.AddSpecification(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, spec)
}

// PUT /admin/specifications/:id
func (h *AdminHandler) UpdateSpecification(c *gin.Context) {
	id, ok := idParam(c, "id", "specification")
	if !ok {
		return
	}

	var req services.SpecificationRequest
	if !bindJSON(c, &req) {
		return
	}

	spec, err := h.editor.UpdateSpecification(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "specification")
		return
	}

	utils.SuccessResponse(c, spec)
}

// DELETE /admin/specifications/:id
func (h *AdminHandler) DeleteSpecification(c *gin.Context) {
	id, ok := idParam(c, "id", "specification")
	if !ok {
		return
	}

	if err := h.editor.DeleteSpecification(c.Request.Context(), id); err != nil {
		respondError(c, err, "specification")
		return
	}

	utils.NoContentResponse(c)
}

// upload stores the multipart "image" field and answers the error itself.
func (h *AdminHandler) upload(c *gin.Context, folder string) (*services.UploadResult, bool) {
	lang := utils.GetLangFromContext(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "image"), nil)
		return nil, false
	}
	defer file.Close()

	result, err := h.media.UploadImage(file, header, h.media.GetDefaultUploadOptions(folder))
	if err != nil {
		respondError(c, err, "product")
		return nil, false
	}
	return result, true
}
