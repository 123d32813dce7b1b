// internal/handlers/params.go
package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

// Numeric filters compare against decimal(10,2) columns.
const (
	maxDecimalInput = 32
	maxDecimalExp   = 8
)

var maxDecimalFilter = decimal.New(1, maxDecimalExp)

// queryDecimal parses an optional numeric filter rounded to cents. Malformed
// or out of range values are ignored like any unknown filter.
func queryDecimal(c *gin.Context, key string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" || len(raw) > maxDecimalInput {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	// The exponent is checked before any arithmetic rescales the value
	if exp := d.Exponent(); exp > maxDecimalExp || exp < -maxDecimalInput {
		return nil
	}
	d = d.Round(2)
	if d.Abs().GreaterThanOrEqual(maxDecimalFilter) {
		return nil
	}
	return &d
}

func queryBool(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil
	}
	return &b
}

func queryInt(c *gin.Context, key string) *int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func queryUUID(c *gin.Context, key string) *uuid.UUID {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// queryDate accepts 2006-01-02 or RFC 3339.
func queryDate(c *gin.Context, key string) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// productFilter reads the public product filters from the query string.
func productFilter(c *gin.Context, pageSize int) services.ProductFilter {
	filter := services.ProductFilter{
		PaginationParams: utils.GetPaginationParams(c, pageSize),
		CategoryID:       queryUUID(c, "category"),
		CategorySlug:     strings.TrimSpace(c.Query("category_slug")),
		MinPrice:         queryDecimal(c, "min_price"),
		MaxPrice:         queryDecimal(c, "max_price"),
		MinRating:        queryDecimal(c, "min_rating"),
		IsFeatured:       queryBool(c, "is_featured"),
		HasDiscount:      queryBool(c, "has_discount"),
	}
	// category also accepts a slug
	if filter.CategoryID == nil && filter.CategorySlug == "" {
		if raw := strings.TrimSpace(c.Query("category")); raw != "" {
			filter.CategorySlug = raw
		}
	}
	return filter
}

// idParam parses a path id and answers 404 itself when it is malformed.
func idParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.NotFoundResponse(c, resource)
		return uuid.Nil, false
	}
	return id, true
}
