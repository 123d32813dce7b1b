// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

// Review starts unmoderated (is_active=false) unless auto-publish is on.
// Only active reviews count toward the product rating and listings.
type Review struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_reviews_product_active"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Phone     string    `json:"phone" gorm:"size:20;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:false;index:idx_reviews_product_active"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"size:45;<-:create"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
