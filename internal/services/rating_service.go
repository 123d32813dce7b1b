// internal/services/rating_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lebem/lebem-backend/internal/models"
)

// RatingRecomputer keeps Product.rating equal to the rounded mean of its
// active reviews.
type RatingRecomputer interface {
	Recompute(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

type ratingAggregate struct {
	Total int64
	Count int64
}

// Recompute locks the product row, aggregates its active reviews and
// writes only the rating column.
func (s *RatingService) Recompute(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var rating decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var agg ratingAggregate
		if err := tx.Model(&models.Review{}).
			Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
			Where("product_id = ? AND is_active = ?", productID, true).
			Scan(&agg).Error; err != nil {
			return fmt.Errorf("failed to aggregate reviews: %w", err)
		}

		rating = models.AverageRating(agg.Total, agg.Count)

		// UpdateColumn skips hooks and updated_at
		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("rating", rating).Error
	})
	if err != nil {
		return decimal.Zero, err
	}

	return rating, nil
}

// RecomputeMany recomputes each distinct product once and returns the
// failures keyed by product. An empty map means every product is consistent.
func (s *RatingService) RecomputeMany(ctx context.Context, productIDs []uuid.UUID) map[uuid.UUID]error {
	return recomputeMany(ctx, s, productIDs)
}

func recomputeMany(ctx context.Context, r RatingRecomputer, productIDs []uuid.UUID) map[uuid.UUID]error {
	failures := make(map[uuid.UUID]error)

	for _, id := range uniqueIDs(productIDs) {
		if _, err := r.Recompute(ctx, id); err != nil {
			logrus.WithError(err).WithField("product_id", id).Warn("Failed to recompute product rating")
			failures[id] = err
		}
	}

	return failures
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
