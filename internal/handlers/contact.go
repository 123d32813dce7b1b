// internal/handlers/contact.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type ContactHandler struct {
	contacts ContactManager
	pageSize int
}

func NewContactHandler(contacts ContactManager, pageSize int) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		pageSize: pageSize,
	}
}

// POST /contact
func (h *ContactHandler) CreateMessage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.contacts.Create(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContactSent),
		"id":      message.ID,
	})
}

// GET /admin/contacts
func (h *ContactHandler) ListMessages(c *gin.Context) {
	filter := services.ContactFilter{
		PaginationParams: utils.GetPaginationParams(c, h.pageSize),
		Subject:          models.ContactSubject(c.Query("subject")),
		IsRead:           queryBool(c, "is_read"),
		FromDate:         queryDate(c, "from"),
		ToDate:           queryDate(c, "to"),
	}

	messages, total, err := h.contacts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(messages, total, filter.PaginationParams))
}

// GET /admin/contacts/:id
func (h *ContactHandler) GetMessage(c *gin.Context) {
	id, ok := idParam(c, "id", "contact")
	if !ok {
		return
	}

	message, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.SuccessResponse(c, message)
}

// DELETE /admin/contacts/:id
func (h *ContactHandler) DeleteMessage(c *gin.Context) {
	id, ok := idParam(c, "id", "contact")
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.NoContentResponse(c)
}

// POST /admin/contacts/bulk-delete
func (h *ContactHandler) BulkDeleteMessages(c *gin.Context) {
	var req services.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	deleted, err := h.contacts.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, "contact")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted_count": deleted})
}
