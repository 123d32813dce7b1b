// internal/services/review_service.go
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

type ReviewService struct {
	db          *gorm.DB
	ratings     RatingRecomputer
	notifier    Notifier
	autoPublish bool
}

type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,phone"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,max=2000"`
}

type UpdateReviewRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment  *string `json:"comment,omitempty" validate:"omitempty,min=1,max=2000"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type BulkReviewStatusRequest struct {
	IDs      []uuid.UUID `json:"ids" validate:"required,min=1"`
	IsActive *bool       `json:"is_active" validate:"required"`
}

type ReviewFilter struct {
	utils.PaginationParams
	Status    string
	ProductID *uuid.UUID
	Rating    *int
}

// BulkReviewResult reports how many reviews changed and whether every
// affected rating was recomputed.
type BulkReviewResult struct {
	UpdatedCount     int64  `json:"updated_count"`
	ProductsAffected int    `json:"products_affected"`
	Warning          string `json:"warning,omitempty"`
}

func NewReviewService(db *gorm.DB, ratings RatingRecomputer, notifier Notifier, autoPublish bool) *ReviewService {
	return &ReviewService{
		db:          db,
		ratings:     ratings,
		notifier:    notifier,
		autoPublish: autoPublish,
	}
}

// Create stores a public review for an active product and queues the shop
// notification. The review counts toward the rating only when published.
func (s *ReviewService) Create(ctx context.Context, req *CreateReviewRequest, ipAddress string) (*models.Review, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	productID, _ := uuid.Parse(req.ProductID)
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id", "name").Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		mapped := mapStoreError(err, "product_id")
		if mapped == ErrNotFound {
			return nil, newValidationError("product_id", "exists", "product does not exist")
		}
		return nil, mapped
	}

	review := &models.Review{
		ProductID: product.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		Rating:    req.Rating,
		Comment:   req.Comment,
		IsActive:  s.autoPublish,
		IPAddress: ipAddress,
	}
	if err := db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.Product = &product

	if review.IsActive {
		s.recompute(ctx, product.ID)
	}

	s.notifier.Notify(ctx, NotificationReview, map[string]string{
		"name":    review.Name,
		"phone":   review.Phone,
		"product": product.Name,
		"rating":  strconv.Itoa(review.Rating),
		"comment": review.Comment,
	})

	return review, nil
}

func (s *ReviewService) List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{})

	switch filter.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR comment ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []models.Review
	if err := utils.ApplyPagination(query, filter.PaginationParams).
		Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "slug", "price", "old_price") }).
		Order("created_at DESC, id").
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).
		Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "slug", "price", "old_price") }).
		First(&review, "id = ?", id).Error; err != nil {
		return nil, mapStoreError(err, "id")
	}
	return &review, nil
}

// Update edits a review. The rating is recomputed when the change can
// move it.
func (s *ReviewService) Update(ctx context.Context, id uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var review models.Review
	var recompute bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, "id = ?", id).Error; err != nil {
			return mapStoreError(err, "id")
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.Comment != nil {
			updates["comment"] = *req.Comment
		}
		if req.Rating != nil && *req.Rating != review.Rating {
			updates["rating"] = *req.Rating
			recompute = review.IsActive
		}
		if req.IsActive != nil && *req.IsActive != review.IsActive {
			updates["is_active"] = *req.IsActive
			recompute = true
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&review).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if recompute {
		s.recompute(ctx, review.ProductID)
	}

	return s.Get(ctx, id)
}

// Toggle flips is_active and recomputes the product rating.
func (s *ReviewService) Toggle(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, "id = ?", id).Error; err != nil {
			return mapStoreError(err, "id")
		}
		next := !review.IsActive
		if err := tx.Model(&review).Update("is_active", next).Error; err != nil {
			return err
		}
		review.IsActive = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recompute(ctx, review.ProductID)
	return &review, nil
}

// SoftDelete hides an active review.
func (s *ReviewService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var review models.Review
	if err := db.Select("id", "product_id").Where("id = ? AND is_active = ?", id, true).First(&review).Error; err != nil {
		return mapStoreError(err, "id")
	}

	res := db.Model(&models.Review{}).Where("id = ? AND is_active = ?", id, true).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.recompute(ctx, review.ProductID)
	return nil
}

// Purge removes a review row for good.
func (s *ReviewService) Purge(ctx context.Context, id uuid.UUID) error {
	var review models.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, "id = ?", id).Error; err != nil {
			return mapStoreError(err, "id")
		}
		return tx.Delete(&models.Review{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	if review.IsActive {
		s.recompute(ctx, review.ProductID)
	}
	return nil
}

// recompute runs after the review change committed. A failure leaves the
// rating stale until the next recompute and is only logged.
func (s *ReviewService) recompute(ctx context.Context, productID uuid.UUID) {
	if _, err := s.ratings.Recompute(ctx, productID); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("Failed to recompute rating after review change")
	}
}

// BulkSetStatus moves every review in ids to the requested state and
// recomputes each distinct affected product once.
func (s *ReviewService) BulkSetStatus(ctx context.Context, req *BulkReviewStatusRequest) (*BulkReviewResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	target := *req.IsActive

	var productIDs []uuid.UUID
	result := &BulkReviewResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Distinct("product_id").
			Where("id IN ? AND is_active = ?", req.IDs, !target).
			Pluck("product_id", &productIDs).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Review{}).
			Where("id IN ? AND is_active = ?", req.IDs, !target).
			Update("is_active", target)
		result.UpdatedCount = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update reviews: %w", err)
	}

	result.ProductsAffected = len(productIDs)
	if failures := recomputeMany(ctx, s.ratings, productIDs); len(failures) > 0 {
		result.Warning = fmt.Sprintf("%d product ratings could not be recomputed", len(failures))
	}

	return result, nil
}

// BulkDeactivate soft deletes the active reviews in ids.
func (s *ReviewService) BulkDeactivate(ctx context.Context, ids []uuid.UUID) (*BulkReviewResult, error) {
	inactive := false
	return s.BulkSetStatus(ctx, &BulkReviewStatusRequest{IDs: ids, IsActive: &inactive})
}
