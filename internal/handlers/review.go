// internal/handlers/review.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type ReviewHandler struct {
	reviews  ReviewManager
	pageSize int
}

func NewReviewHandler(reviews ReviewManager, pageSize int) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		pageSize: pageSize,
	}
}

// POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		respondError(c, err, "review")
		return
	}

	message := i18n.T(lang, i18n.KeyReviewSubmitted)
	if review.IsActive {
		message = i18n.T(lang, i18n.KeyReviewPublished)
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
		"review": services.PublicReview{
			ID:        review.ID,
			Name:      review.Name,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		},
		"is_active": review.IsActive,
	})
}

// GET /admin/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	filter := services.ReviewFilter{
		PaginationParams: utils.GetPaginationParams(c, h.pageSize),
		Status:           strings.ToLower(c.Query("status")),
		ProductID:        queryUUID(c, "product"),
		Rating:           queryInt(c, "rating"),
	}

	reviews, total, err := h.reviews.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reviews, total, filter.PaginationParams))
}

// GET /admin/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.SuccessResponse(c, review)
}

// PATCH /admin/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := idParam(c, "id", "review")
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.SuccessResponse(c, review)
}

// POST /admin/reviews/:id/toggle
func (h *ReviewHandler) ToggleReview(c *gin.Context) {
	id, ok := idParam(c, "id", "review")
	if !ok {
		return
	}

	review, err := h.reviews.Toggle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.SuccessResponse(c, review)
}

// DELETE /admin/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := idParam(c, "id", "review")
	if !ok {
		return
	}

	if err := h.reviews.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "review")
		return
	}

	utils.NoContentResponse(c)
}

// DELETE /admin/reviews/:id/purge
func (h *ReviewHandler) PurgeReview(c *gin.Context) {
	id, ok := idParam(c, "id", "review")
	if !ok {
		return
	}

	if err := h.reviews.Purge(c.Request.Context(), id); err != nil {
		respondError(c, err, "review")
		return
	}

	utils.NoContentResponse(c)
}

// POST /admin/reviews/bulk-status
func (h *ReviewHandler) BulkSetStatus(c *gin.Context) {
	var req services.BulkReviewStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reviews.BulkSetStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /admin/reviews/bulk-delete
func (h *ReviewHandler) BulkDeleteReviews(c *gin.Context) {
	var req services.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reviews.BulkDeactivate(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, "review")
		return
	}

	utils.SuccessResponse(c, result)
}
