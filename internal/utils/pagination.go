// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Page size is fixed per deployment; clients only choose the page number.
type PaginationParams struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Ordering string `json:"ordering"`
	Search   string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// MaxOffset bounds the row offset a page number may reach.
const MaxOffset = math.MaxInt32

func GetPaginationParams(c *gin.Context, pageSize int) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	if last := maxPage(pageSize); page > last {
		page = last
	}

	return PaginationParams{
		Page:     page,
		Limit:    pageSize,
		Ordering: strings.TrimSpace(c.Query("ordering")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

func maxPage(limit int) int {
	if limit < 1 {
		return MaxOffset
	}
	return MaxOffset/limit + 1
}

func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	if p.Page > maxPage(p.Limit) {
		return MaxOffset
	}
	return (p.Page - 1) * p.Limit
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset()).Limit(params.Limit)
}

// OrderClause maps an ordering parameter such as "-price" onto a column
// from allowed. Unknown fields fall back to fallback. The returned clause
// always ends with tiebreak so pages stay stable.
func OrderClause(ordering string, allowed []string, fallback, tiebreak string) string {
	direction := "ASC"
	field := ordering
	if strings.HasPrefix(field, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(field, "-")
	}

	for _, candidate := range allowed {
		if candidate == field {
			return field + " " + direction + ", " + tiebreak
		}
	}

	return fallback + ", " + tiebreak
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
