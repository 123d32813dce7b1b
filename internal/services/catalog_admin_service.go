// internal/services/catalog_admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lebem/lebem-backend/internal/models"
)

// CatalogAdminService owns every activation change on categories and
// products. Guarded steps run in one transaction; the review cascade runs
// after commit and is reported instead of rolled back.
type CatalogAdminService struct {
	db      *gorm.DB
	ratings RatingRecomputer
	storage *StorageService
}

type CategoryDeactivation struct {
	Slug                    string `json:"slug"`
	DeletedProductsCount    int64  `json:"deleted_products_count"`
	DeactivatedReviewsCount int64  `json:"deactivated_reviews_count"`
	Warning                 string `json:"warning,omitempty"`
}

type ProductDeactivation struct {
	Slug                    string `json:"slug,omitempty"`
	DeletedCount            int64  `json:"deleted_count"`
	DeactivatedReviewsCount int64  `json:"deactivated_reviews_count"`
	Warning                 string `json:"warning,omitempty"`
}

type BulkCategoryDeactivation struct {
	DeletedCount            int64  `json:"deleted_count"`
	DeletedProductsCount    int64  `json:"deleted_products_count"`
	DeactivatedReviewsCount int64  `json:"deactivated_reviews_count"`
	Warning                 string `json:"warning,omitempty"`
}

type HardDeletion struct {
	ReviewsDeleted        int64 `json:"reviews_deleted"`
	SpecificationsDeleted int64 `json:"specifications_deleted"`
	ImagesDeleted         int64 `json:"images_deleted"`
}

type ProductRestoration struct {
	Product *models.Product `json:"product"`
	Warning string          `json:"warning,omitempty"`
}

type BulkIDsRequest struct {
	IDs   []uuid.UUID `json:"ids" validate:"required,min=1"`
	Force bool        `json:"force,omitempty"`
}

func NewCatalogAdminService(db *gorm.DB, ratings RatingRecomputer, storage *StorageService) *CatalogAdminService {
	return &CatalogAdminService{
		db:      db,
		ratings: ratings,
		storage: storage,
	}
}

// DeactivateCategory hides an active category. Without force it fails with
// *HasDependentsError while any active product remains under it.
func (s *CatalogAdminService) DeactivateCategory(ctx context.Context, slug string, force bool) (*CategoryDeactivation, error) {
	result := &CategoryDeactivation{Slug: slug}
	var productIDs []uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ? AND is_active = ?", slug, true).
			First(&category).Error; err != nil {
			return mapStoreError(err, "slug")
		}

		if err := tx.Model(&models.Product{}).
			Where("category_id = ? AND is_active = ?", category.ID, true).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 && !force {
			return &HasDependentsError{Count: int64(len(productIDs))}
		}

		if len(productIDs) > 0 {
			res := tx.Model(&models.Product{}).
				Where("id IN ? AND is_active = ?", productIDs, true).
				Update("is_active", false)
			if res.Error != nil {
				return fmt.Errorf("failed to deactivate products: %w", res.Error)
			}
			result.DeletedProductsCount = res.RowsAffected
		}

		return tx.Model(&category).Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}

	result.DeactivatedReviewsCount, result.Warning = s.cascadeReviews(ctx, productIDs)

	logrus.WithFields(logrus.Fields{
		"category": slug,
		"force":    force,
		"products": result.DeletedProductsCount,
		"reviews":  result.DeactivatedReviewsCount,
	}).Info("Category deactivated")

	return result, nil
}

// DeactivateProduct hides an active product, then its active reviews.
func (s *CatalogAdminService) DeactivateProduct(ctx context.Context, slug string) (*ProductDeactivation, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").Where("slug = ? AND is_active = ?", slug, true).First(&product).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	res := db.Model(&models.Product{}).
		Where("id = ? AND is_active = ?", product.ID, true).
		Update("is_active", false)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to deactivate product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a race with another deactivation
		return nil, ErrNotFound
	}

	result := &ProductDeactivation{Slug: slug, DeletedCount: 1}
	result.DeactivatedReviewsCount, result.Warning = s.cascadeReviews(ctx, []uuid.UUID{product.ID})

	return result, nil
}

// BulkDeactivateProducts hides every currently active product in ids.
// Unknown or already inactive ids are ignored.
func (s *CatalogAdminService) BulkDeactivateProducts(ctx context.Context, ids []uuid.UUID) (*ProductDeactivation, error) {
	if err := validate(&BulkIDsRequest{IDs: ids}); err != nil {
		return nil, err
	}

	var productIDs []uuid.UUID
	result := &ProductDeactivation{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND is_active = ?", ids, true).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}

		res := tx.Model(&models.Product{}).
			Where("id IN ?", productIDs).
			Update("is_active", false)
		result.DeletedCount = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate products: %w", err)
	}

	result.DeactivatedReviewsCount, result.Warning = s.cascadeReviews(ctx, productIDs)
	return result, nil
}

// BulkDeactivateCategories applies DeactivateCategory to a set. Without
// force a single blocked category rejects the whole batch.
func (s *CatalogAdminService) BulkDeactivateCategories(ctx context.Context, ids []uuid.UUID, force bool) (*BulkCategoryDeactivation, error) {
	if err := validate(&BulkIDsRequest{IDs: ids, Force: force}); err != nil {
		return nil, err
	}

	var productIDs []uuid.UUID
	result := &BulkCategoryDeactivation{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categories []models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND is_active = ?", ids, true).
			Find(&categories).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}

		categoryIDs := make([]uuid.UUID, len(categories))
		for i, category := range categories {
			categoryIDs[i] = category.ID
		}

		var products []models.Product
		if err := tx.Select("id", "category_id").
			Where("category_id IN ? AND is_active = ?", categoryIDs, true).
			Find(&products).Error; err != nil {
			return err
		}

		if len(products) > 0 && !force {
			return blockedCategories(categories, products)
		}

		if len(products) > 0 {
			productIDs = make([]uuid.UUID, len(products))
			for i, product := range products {
				productIDs[i] = product.ID
			}
			res := tx.Model(&models.Product{}).Where("id IN ?", productIDs).Update("is_active", false)
			if res.Error != nil {
				return res.Error
			}
			result.DeletedProductsCount = res.RowsAffected
		}

		res := tx.Model(&models.Category{}).Where("id IN ?", categoryIDs).Update("is_active", false)
		result.DeletedCount = res.RowsAffected
		return res.Error
	})
	if err != nil {
		var blocked *BlockedCategoriesError
		if errors.As(err, &blocked) {
			return nil, blocked
		}
		return nil, fmt.Errorf("failed to deactivate categories: %w", err)
	}

	result.DeactivatedReviewsCount, result.Warning = s.cascadeReviews(ctx, productIDs)
	return result, nil
}

func blockedCategories(categories []models.Category, products []models.Product) *BlockedCategoriesError {
	counts := make(map[uuid.UUID]int64)
	for _, product := range products {
		counts[product.CategoryID]++
	}

	blocked := &BlockedCategoriesError{}
	for _, category := range categories {
		if n := counts[category.ID]; n > 0 {
			blocked.Categories = append(blocked.Categories, BlockedCategory{
				ID:                  category.ID,
				Slug:                category.Slug,
				Name:                category.Name,
				ActiveProductsCount: n,
			})
		}
	}

	sort.Slice(blocked.Categories, func(i, j int) bool {
		return blocked.Categories[i].Name < blocked.Categories[j].Name
	})
	return blocked
}

// HardDeleteProduct removes the product and its children, children first,
// in one transaction. It works on inactive products too.
func (s *CatalogAdminService) HardDeleteProduct(ctx context.Context, slug string) (*HardDeletion, error) {
	result := &HardDeletion{}
	var mainImage string
	var images []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", slug).
			First(&product).Error; err != nil {
			return mapStoreError(err, "slug")
		}
		mainImage = product.MainImage

		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Pluck("image", &images).Error; err != nil {
			return err
		}

		res := tx.Where("product_id = ?", product.ID).Delete(&models.Review{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete reviews: %w", res.Error)
		}
		result.ReviewsDeleted = res.RowsAffected

		res = tx.Where("product_id = ?", product.ID).Delete(&models.ProductSpecification{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete specifications: %w", res.Error)
		}
		result.SpecificationsDeleted = res.RowsAffected

		res = tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete images: %w", res.Error)
		}
		result.ImagesDeleted = res.RowsAffected

		return tx.Delete(&models.Product{}, "id = ?", product.ID).Error
	})
	if err != nil {
		return nil, err
	}

	// Files are removed only once the rows are gone
	if s.storage != nil {
		for _, key := range append(images, mainImage) {
			if key == "" {
				continue
			}
			if err := s.storage.DeleteFile(key); err != nil {
				logrus.WithError(err).WithField("key", key).Warn("Failed to delete product file")
			}
		}
	}

	logrus.WithField("product", slug).Info("Product permanently deleted")
	return result, nil
}

// RestoreProduct reactivates a product whose category is active, then
// recomputes its rating against the reviews that are active now. A failed
// recompute is reported as a warning since the product is already live.
func (s *CatalogAdminService) RestoreProduct(ctx context.Context, slug string) (*ProductRestoration, error) {
	var product models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.Select("id", "category_id").Where("slug = ?", slug).First(&current).Error; err != nil {
			return mapStoreError(err, "slug")
		}

		// Category before product, the order DeactivateCategory locks in
		active, err := lockCategory(tx, current.CategoryID)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", current.ID).
			First(&product).Error; err != nil {
			return mapStoreError(err, "slug")
		}
		if product.CategoryID != current.CategoryID {
			if active, err = lockCategory(tx, product.CategoryID); err != nil {
				return err
			}
		}
		if !active {
			return errInactiveCategory()
		}

		if product.IsActive {
			return nil
		}
		if err := tx.Model(&product).Update("is_active", true).Error; err != nil {
			return fmt.Errorf("failed to restore product: %w", err)
		}
		product.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ProductRestoration{Product: &product}
	rating, err := s.ratings.Recompute(ctx, product.ID)
	if err != nil {
		logrus.WithError(err).WithField("product", slug).Warn("Failed to recompute rating after restore")
		result.Warning = "product restored but its rating could not be recomputed"
		return result, nil
	}
	product.Rating = rating

	return result, nil
}

// RestoreCategory reactivates a category. Its products keep their own state.
func (s *CatalogAdminService) RestoreCategory(ctx context.Context, slug string) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var category models.Category
	if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	if !category.IsActive {
		if err := db.Model(&category).Update("is_active", true).Error; err != nil {
			return nil, fmt.Errorf("failed to restore category: %w", err)
		}
		category.IsActive = true
	}

	return &category, nil
}

// cascadeReviews hides the active reviews of productIDs and recomputes the
// affected ratings. Failures are returned as a warning for the response.
func (s *CatalogAdminService) cascadeReviews(ctx context.Context, productIDs []uuid.UUID) (int64, string) {
	if len(productIDs) == 0 {
		return 0, ""
	}
	db := s.db.WithContext(ctx)

	var affected []uuid.UUID
	if err := db.Model(&models.Review{}).
		Distinct("product_id").
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Pluck("product_id", &affected).Error; err != nil {
		return 0, s.cascadeWarning(err, productIDs)
	}
	if len(affected) == 0 {
		return 0, ""
	}

	res := db.Model(&models.Review{}).
		Where("product_id IN ? AND is_active = ?", affected, true).
		Update("is_active", false)
	if res.Error != nil {
		return 0, s.cascadeWarning(res.Error, productIDs)
	}

	if failures := recomputeMany(ctx, s.ratings, affected); len(failures) > 0 {
		return res.RowsAffected, fmt.Sprintf("reviews deactivated but %d product ratings could not be recomputed", len(failures))
	}

	return res.RowsAffected, ""
}

func (s *CatalogAdminService) cascadeWarning(err error, productIDs []uuid.UUID) string {
	logrus.WithError(err).WithField("products", len(productIDs)).Warn("Review cascade failed after product deactivation")
	return "products deactivated but their reviews could not be deactivated: " + err.Error()
}
