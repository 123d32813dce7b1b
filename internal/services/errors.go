// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/utils"
)

// ErrNotFound is returned when the addressed row does not exist or is
// hidden from the caller.
var ErrNotFound = errors.New("not found")

const pgUniqueViolation = "23505"

// HasDependentsError blocks deactivating a category that still owns
// active products.
type HasDependentsError struct {
	Count int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("category has %d active products", e.Count)
}

type BlockedCategory struct {
	ID                  uuid.UUID `json:"id"`
	Slug                string    `json:"slug"`
	Name                string    `json:"name"`
	ActiveProductsCount int64     `json:"active_products_count"`
}

// BlockedCategoriesError aborts a bulk category deactivation.
type BlockedCategoriesError struct {
	Categories []BlockedCategory
}

func (e *BlockedCategoriesError) Error() string {
	return fmt.Sprintf("%d categories still have active products", len(e.Categories))
}

type ValidationError struct {
	Fields  []utils.ValidationError
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "validation failed: " + e.Message
	}
	if len(e.Fields) > 0 {
		return "validation failed: " + e.Fields[0].Message
	}
	return "validation failed"
}

func newValidationError(field, tag, message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  []utils.ValidationError{{Field: field, Tag: tag, Message: message}},
	}
}

// validate runs the struct validator and converts its result.
func validate(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		if fields := utils.GetValidationErrors(err); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// mapStoreError converts lookups and constraint violations into the typed
// errors handlers understand.
func mapStoreError(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return newValidationError(field, "unique", field+" already exists")
	}
	return err
}
