// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

// respondError maps service errors onto the response envelope. resource
// selects the "<resource>.not_found" message.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var dependentsErr *services.HasDependentsError
	var blockedErr *services.BlockedCategoriesError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.As(err, &validationErr):
		utils.ValidationErrorResponse(c, validationErr.Fields)
	case errors.As(err, &dependentsErr):
		utils.PreconditionResponse(c, "HAS_ACTIVE_PRODUCTS",
			i18n.T(lang, i18n.KeyCategoryHasProducts, dependentsErr.Count),
			gin.H{
				"active_products_count": dependentsErr.Count,
				"hint":                  "use DELETE /api/v1/categories/{slug}/force to deactivate the products too",
			})
	case errors.As(err, &blockedErr):
		utils.PreconditionResponse(c, "HAS_ACTIVE_PRODUCTS",
			i18n.T(lang, i18n.KeyCategoriesBlocked),
			gin.H{
				"categories": blockedErr.Categories,
				"hint":       "send force=true to deactivate the products too",
			})
	case errors.Is(err, services.ErrFileTooLarge):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
	case errors.Is(err, services.ErrFileNotAllowed):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		_ = c.Error(err)
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body and answers 400 itself on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.BadRequestResponse(c, "", gin.H{"body": err.Error()})
		return false
	}
	return true
}
