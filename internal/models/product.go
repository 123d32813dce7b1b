// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	CategoryID       uuid.UUID           `json:"category_id" gorm:"type:uuid;not null;index"`
	Name             string              `json:"name" gorm:"size:200;not null"`
	Slug             string              `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Description      string              `json:"description" gorm:"type:text"`
	ShortDescription string              `json:"short_description" gorm:"size:500"`
	Price            decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	OldPrice         decimal.NullDecimal `json:"old_price" gorm:"type:decimal(10,2);check:old_price IS NULL OR old_price >= 0"`
	MainImage        string              `json:"main_image" gorm:"size:500"`
	IsActive         bool                `json:"is_active" gorm:"not null;index"`
	IsFeatured       bool                `json:"is_featured" gorm:"not null;index"`
	ViewsCount       int64               `json:"views_count" gorm:"not null;default:0"`
	Rating           decimal.Decimal     `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`

	// Derived, never persisted
	ReviewsCount       int64 `json:"reviews_count" gorm:"->;-:migration"`
	DiscountPercentage int64 `json:"discount_percentage" gorm:"-"`

	// Relationships
	Category       *Category              `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images         []ProductImage         `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Specifications []ProductSpecification `json:"specifications,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews        []Review               `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ReviewsCountSelect is the column expression for the active review count.
const ReviewsCountSelect = "(SELECT COUNT(*) FROM reviews r WHERE r.product_id = products.id AND r.is_active = true) AS reviews_count"

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.DiscountPercentage = DiscountPercentage(p.Price, p.OldPrice)
	return nil
}

func (p *Product) AfterSave(tx *gorm.DB) error {
	p.DiscountPercentage = DiscountPercentage(p.Price, p.OldPrice)
	return nil
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Image     string    `json:"image" gorm:"size:500;not null"`
	AltText   string    `json:"alt_text" gorm:"size:200"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
}

type ProductSpecification struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_specification_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_product_specification_name"`
	Value     string    `json:"value" gorm:"size:255;not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
}
