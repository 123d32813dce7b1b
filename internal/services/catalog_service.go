// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

const (
	FeaturedLimit = 8
	PopularLimit  = 10
	LatestLimit   = 10

	productTiebreak = "products.created_at DESC, products.id"
)

var productOrderFields = []string{"price", "created_at", "rating", "views_count", "name"}

// CatalogService answers the read side of the catalog. Public queries only
// see active rows; admin listings set IncludeInactive.
type CatalogService struct {
	db *gorm.DB
}

type ProductFilter struct {
	utils.PaginationParams
	CategoryID      *uuid.UUID
	CategorySlug    string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinRating       *decimal.Decimal
	IsFeatured      *bool
	HasDiscount     *bool
	IsActive        *bool
	SearchCategory  bool
	IncludeInactive bool
}

type CategoryFilter struct {
	Search          string
	IsActive        *bool
	IncludeInactive bool
}

type PriceRange struct {
	MinPrice decimal.NullDecimal `json:"min_price"`
	MaxPrice decimal.NullDecimal `json:"max_price"`
}

type FiltersInfo struct {
	PriceRange PriceRange        `json:"price_range"`
	Categories []models.Category `json:"categories"`
}

type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// PublicReview is what anonymous visitors see of a review.
type PublicReview struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewStats struct {
	TotalReviews    int64           `json:"total_reviews"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	RatingBreakdown []RatingBucket  `json:"rating_breakdown"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListCategories(ctx context.Context, filter CategoryFilter) ([]models.Category, error) {
	query := s.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.*, " + models.ProductsCountSelect)

	if !filter.IncludeInactive {
		query = query.Where("categories.is_active = ?", true)
	} else if filter.IsActive != nil {
		query = query.Where("categories.is_active = ?", *filter.IsActive)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("categories.name ILIKE ? OR categories.description ILIKE ?", pattern, pattern)
	}

	var categories []models.Category
	if err := query.Order("categories.sort_order, categories.name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns an active category with its active products.
func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var category models.Category
	if err := db.Select("categories.*, "+models.ProductsCountSelect).
		Where("slug = ? AND is_active = ?", slug, true).
		Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("products.*, "+models.ReviewsCountSelect).
				Where("products.is_active = ?", true).
				Order("products.price, " + productTiebreak)
		}).
		First(&category).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	return &category, nil
}

// ListProducts applies filter and returns one page plus the total count.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := s.productQuery(ctx, filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	order := utils.OrderClause(qualifyOrdering(filter.Ordering), qualifiedFields(), "products.price ASC", productTiebreak)

	var products []models.Product
	err := utils.ApplyPagination(query, filter.PaginationParams).
		Select("products.*, " + models.ReviewsCountSelect).
		Preload("Category").
		Order(order).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// ListCategoryProducts lists the active products of an active category.
func (s *CatalogService) ListCategoryProducts(ctx context.Context, slug string, filter ProductFilter) ([]models.Product, int64, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Select("id").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error; err != nil {
		return nil, 0, mapStoreError(err, "slug")
	}

	filter.CategoryID = &category.ID
	filter.CategorySlug = ""
	filter.IncludeInactive = false
	return s.ListProducts(ctx, filter)
}

// SearchProducts matches the product text fields and the category name.
func (s *CatalogService) SearchProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	filter.SearchCategory = true
	filter.IncludeInactive = false
	return s.ListProducts(ctx, filter)
}

func (s *CatalogService) productQuery(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	} else if filter.IsActive != nil {
		query = query.Where("products.is_active = ?", *filter.IsActive)
	}

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		query = query.Where("products.category_id IN (?)",
			s.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Where("products.rating >= ?", *filter.MinRating)
	}
	if filter.IsFeatured != nil {
		query = query.Where("products.is_featured = ?", *filter.IsFeatured)
	}
	if filter.HasDiscount != nil {
		if *filter.HasDiscount {
			query = query.Where("products.old_price IS NOT NULL AND products.old_price > products.price")
		} else {
			query = query.Where("products.old_price IS NULL OR products.old_price <= products.price")
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		cond := "products.name ILIKE @q OR products.description ILIKE @q OR products.short_description ILIKE @q"
		if filter.SearchCategory {
			cond += " OR products.category_id IN (SELECT id FROM categories WHERE name ILIKE @q)"
		}
		query = query.Where(cond, map[string]interface{}{"q": pattern})
	}

	return query
}

// GetProduct counts the view with a single atomic UPDATE and loads the
// active product with its images, specifications and category.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	db := s.db.WithContext(ctx)

	res := db.Model(&models.Product{}).
		Where("slug = ? AND is_active = ?", slug, true).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to count product view: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var product models.Product
	if err := db.Select("products.*, "+models.ReviewsCountSelect).
		Where("slug = ?", slug).
		Preload("Category").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order, created_at") }).
		Preload("Specifications", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order, name") }).
		First(&product).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	return &product, nil
}

// GetProductForAdmin loads a product in any state without counting a view.
func (s *CatalogService) GetProductForAdmin(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Select("products.*, "+models.ReviewsCountSelect).
		Where("slug = ?", slug).
		Preload("Category").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order, created_at") }).
		Preload("Specifications", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order, name") }).
		First(&product).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}
	return &product, nil
}

func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return s.curated(ctx, true, productTiebreak, FeaturedLimit)
}

func (s *CatalogService) PopularProducts(ctx context.Context) ([]models.Product, error) {
	return s.curated(ctx, false, "products.views_count DESC, "+productTiebreak, PopularLimit)
}

func (s *CatalogService) LatestProducts(ctx context.Context) ([]models.Product, error) {
	return s.curated(ctx, false, productTiebreak, LatestLimit)
}

func (s *CatalogService) curated(ctx context.Context, featuredOnly bool, order string, limit int) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("products.*, "+models.ReviewsCountSelect).
		Where("products.is_active = ?", true)
	if featuredOnly {
		query = query.Where("products.is_featured = ?", true)
	}

	var products []models.Product
	err := query.
		Preload("Category").
		Order(order).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) FiltersInfo(ctx context.Context) (*FiltersInfo, error) {
	info := &FiltersInfo{}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price").
		Where("is_active = ?", true).
		Scan(&info.PriceRange).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate prices: %w", err)
	}

	categories, err := s.ListCategories(ctx, CategoryFilter{})
	if err != nil {
		return nil, err
	}
	info.Categories = categories

	return info, nil
}

// ProductReviews lists the active reviews of an active product, newest first.
func (s *CatalogService) ProductReviews(ctx context.Context, slug string, params utils.PaginationParams) ([]PublicReview, int64, error) {
	productID, err := s.activeProductID(ctx, slug)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND is_active = ?", productID, true)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews := []PublicReview{}
	if err := utils.ApplyPagination(query, params).
		Select("id", "name", "rating", "comment", "created_at").
		Order("created_at DESC, id").
		Scan(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, total, nil
}

// ReviewStats aggregates the active reviews of an active product. The
// breakdown lists only ratings that occur, highest first.
func (s *CatalogService) ReviewStats(ctx context.Context, slug string) (*ReviewStats, error) {
	productID, err := s.activeProductID(ctx, slug)
	if err != nil {
		return nil, err
	}

	var buckets []RatingBucket
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ? AND is_active = ?", productID, true).
		Group("rating").
		Order("rating DESC").
		Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return summarizeRatings(buckets), nil
}

func summarizeRatings(buckets []RatingBucket) *ReviewStats {
	stats := &ReviewStats{RatingBreakdown: buckets}
	if stats.RatingBreakdown == nil {
		stats.RatingBreakdown = []RatingBucket{}
	}

	var sum int64
	for _, b := range buckets {
		stats.TotalReviews += b.Count
		sum += int64(b.Rating) * b.Count
	}
	stats.AverageRating = models.AverageRating(sum, stats.TotalReviews)
	return stats
}

func (s *CatalogService) activeProductID(ctx context.Context, slug string) (uuid.UUID, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Select("id").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		return uuid.Nil, mapStoreError(err, "slug")
	}
	return product.ID, nil
}

func qualifyOrdering(ordering string) string {
	if strings.HasPrefix(ordering, "-") {
		return "-products." + strings.TrimPrefix(ordering, "-")
	}
	if ordering == "" {
		return ""
	}
	return "products." + ordering
}

func qualifiedFields() []string {
	out := make([]string, len(productOrderFields))
	for i, f := range productOrderFields {
		out[i] = "products." + f
	}
	return out
}

// likePattern escapes LIKE wildcards in user input.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
