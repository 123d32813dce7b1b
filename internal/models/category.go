// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image" gorm:"size:500"`
	IsActive    bool   `json:"is_active" gorm:"not null;index"`
	SortOrder   int    `json:"sort_order" gorm:"default:0"`

	// Derived, filled by queries that select it
	ProductsCount int64 `json:"products_count" gorm:"->;-:migration"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// ProductsCountSelect is the column expression for the active product count.
const ProductsCountSelect = "(SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id AND p.is_active = true) AS products_count"
