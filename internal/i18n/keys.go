// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Categories
	KeyCategoryNotFound      = "category.not_found"
	KeyCategoryDeleted       = "category.deleted"
	KeyCategoryForceDeleted  = "category.force_deleted"
	KeyCategoryHasProducts   = "category.has_products"
	KeyCategoriesBlocked     = "category.bulk_blocked"
	KeyCategoriesBulkDeleted = "category.bulk_deleted"
	KeyCategoryRestored      = "category.restored"

	// Products
	KeyProductNotFound     = "product.not_found"
	KeyProductDeleted      = "product.deleted"
	KeyProductBulkDeleted  = "product.bulk_deleted"
	KeyProductPurged       = "product.purged"
	KeyProductRestored     = "product.restored"
	KeyProductCascadeError = "product.cascade_failed"

	// Product children
	KeyImageNotFound         = "image.not_found"
	KeySpecificationNotFound = "specification.not_found"

	// Reviews
	KeyReviewNotFound  = "review.not_found"
	KeyReviewSubmitted = "review.submitted"
	KeyReviewPublished = "review.published"

	// Contact
	KeyContactNotFound = "contact.not_found"
	KeyContactSent     = "contact.sent"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationIDs     = "validation.ids_required"
	KeyValidationExists  = "validation.already_exists"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
