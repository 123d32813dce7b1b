// internal/services/contact_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

const dashboardWindow = 30 * 24 * time.Hour

type ContactService struct {
	db       *gorm.DB
	notifier Notifier
}

type CreateContactRequest struct {
	Name    string                `json:"name" validate:"required,max=100"`
	Phone   string                `json:"phone" validate:"required,phone"`
	Email   string                `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Subject models.ContactSubject `json:"subject" validate:"required,oneof=inquiry support complaint suggestion order"`
	Message string                `json:"message" validate:"required,max=5000"`
}

type ContactFilter struct {
	utils.PaginationParams
	Subject  models.ContactSubject
	IsRead   *bool
	FromDate *time.Time
	ToDate   *time.Time
}

type CountBucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	Reviews struct {
		Total    int64          `json:"total"`
		Recent   int64          `json:"recent"`
		Pending  int64          `json:"pending"`
		ByRating []RatingBucket `json:"by_rating"`
	} `json:"reviews"`
	ContactMessages struct {
		Total     int64         `json:"total"`
		Recent    int64         `json:"recent"`
		Unread    int64         `json:"unread"`
		BySubject []CountBucket `json:"by_subject"`
	} `json:"contact_messages"`
	Catalog struct {
		ActiveProducts   int64 `json:"active_products"`
		InactiveProducts int64 `json:"inactive_products"`
		ActiveCategories int64 `json:"active_categories"`
	} `json:"catalog"`
}

func NewContactService(db *gorm.DB, notifier Notifier) *ContactService {
	return &ContactService{
		db:       db,
		notifier: notifier,
	}
}

func (s *ContactService) Create(ctx context.Context, req *CreateContactRequest, ipAddress string) (*models.ContactMessage, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	message := &models.ContactMessage{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: ipAddress,
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	s.notifier.Notify(ctx, NotificationContact, map[string]string{
		"name":    message.Name,
		"phone":   message.Phone,
		"email":   message.Email,
		"subject": message.Subject.Label(),
		"message": message.Message,
	})

	return message, nil
}

func (s *ContactService) List(ctx context.Context, filter ContactFilter) ([]models.ContactMessage, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ContactMessage{})

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR message ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	var messages []models.ContactMessage
	if err := utils.ApplyPagination(query, filter.PaginationParams).
		Order("created_at DESC, id").
		Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}

	return messages, total, nil
}

// Get returns a message and marks it read.
func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	db := s.db.WithContext(ctx)

	var message models.ContactMessage
	if err := db.First(&message, "id = ?", id).Error; err != nil {
		return nil, mapStoreError(err, "id")
	}

	if !message.IsRead {
		if err := db.Model(&message).UpdateColumn("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		message.IsRead = true
	}

	return &message, nil
}

// Delete removes a contact message permanently.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete contact message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContactService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if err := validate(&BulkIDsRequest{IDs: ids}); err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id IN ?", ids)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete contact messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Dashboard summarizes moderation queues over the last 30 days.
func (s *ContactService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	since := time.Now().Add(-dashboardWindow)
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&stats.Reviews.Total, &models.Review{}, "is_active = ?", []interface{}{true}},
		{&stats.Reviews.Recent, &models.Review{}, "is_active = ? AND created_at >= ?", []interface{}{true, since}},
		{&stats.Reviews.Pending, &models.Review{}, "is_active = ?", []interface{}{false}},
		{&stats.ContactMessages.Total, &models.ContactMessage{}, "1 = 1", nil},
		{&stats.ContactMessages.Recent, &models.ContactMessage{}, "created_at >= ?", []interface{}{since}},
		{&stats.ContactMessages.Unread, &models.ContactMessage{}, "is_read = ?", []interface{}{false}},
		{&stats.Catalog.ActiveProducts, &models.Product{}, "is_active = ?", []interface{}{true}},
		{&stats.Catalog.InactiveProducts, &models.Product{}, "is_active = ?", []interface{}{false}},
		{&stats.Catalog.ActiveCategories, &models.Category{}, "is_active = ?", []interface{}{true}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to build dashboard: %w", err)
		}
	}

	stats.Reviews.ByRating = []RatingBucket{}
	if err := db.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("rating").
		Order("rating DESC").
		Scan(&stats.Reviews.ByRating).Error; err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	stats.ContactMessages.BySubject = []CountBucket{}
	if err := db.Model(&models.ContactMessage{}).
		Select("subject AS key, COUNT(*) AS count").
		Group("subject").
		Order("count DESC, subject").
		Scan(&stats.ContactMessages.BySubject).Error; err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return stats, nil
}
