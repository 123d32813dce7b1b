// internal/services/catalog_editor_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty" validate:"omitempty,max=500"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest edits content only. Activation goes through
// DeactivateCategory and RestoreCategory so the product guard holds.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

type SpecificationRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Value     string `json:"value" validate:"required,max=255"`
	SortOrder int    `json:"sort_order"`
}

type CreateProductRequest struct {
	CategoryID       string                 `json:"category_id" validate:"required,uuid"`
	Name             string                 `json:"name" validate:"required,max=200"`
	Slug             string                 `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description      string                 `json:"description,omitempty"`
	ShortDescription string                 `json:"short_description,omitempty" validate:"max=500"`
	Price            decimal.Decimal        `json:"price" validate:"min=0,max=99999999.99"`
	OldPrice         *decimal.Decimal       `json:"old_price,omitempty" validate:"omitempty,min=0,max=99999999.99"`
	MainImage        string                 `json:"main_image,omitempty" validate:"omitempty,max=500"`
	IsActive         *bool                  `json:"is_active,omitempty"`
	IsFeatured       bool                   `json:"is_featured"`
	Specifications   []SpecificationRequest `json:"specifications,omitempty" validate:"dive"`
}

// UpdateProductRequest edits product content. ClearOldPrice drops the
// previous price and with it the discount.
type UpdateProductRequest struct {
	CategoryID       *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Slug             *string          `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description      *string          `json:"description,omitempty"`
	ShortDescription *string          `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Price            *decimal.Decimal `json:"price,omitempty" validate:"omitempty,min=0,max=99999999.99"`
	OldPrice         *decimal.Decimal `json:"old_price,omitempty" validate:"omitempty,min=0,max=99999999.99"`
	ClearOldPrice    bool             `json:"clear_old_price,omitempty"`
	MainImage        *string          `json:"main_image,omitempty" validate:"omitempty,max=500"`
	IsFeatured       *bool            `json:"is_featured,omitempty"`
}

type AddImageRequest struct {
	Image     string `json:"image" validate:"required,max=500"`
	AltText   string `json:"alt_text,omitempty" validate:"max=200"`
	SortOrder int    `json:"sort_order"`
}

func (s *CatalogAdminService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	slug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	logrus.WithField("category", category.Slug).Info("Category created")
	return category, nil
}

func (s *CatalogAdminService) UpdateCategory(ctx context.Context, slug string, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var category models.Category
	if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := db.Model(&category).Updates(updates).Error; err != nil {
			return nil, mapStoreError(err, "slug")
		}
	}

	return &category, nil
}

func (s *CatalogAdminService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	slug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:       uuid.MustParse(req.CategoryID),
		Name:             req.Name,
		Slug:             slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		MainImage:        req.MainImage,
		IsActive:         req.IsActive == nil || *req.IsActive,
		IsFeatured:       req.IsFeatured,
	}
	if req.OldPrice != nil {
		product.OldPrice = decimal.NewNullDecimal(*req.OldPrice)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := lockCategory(tx, product.CategoryID)
		if err != nil {
			return err
		}
		if product.IsActive && !active {
			return errInactiveCategory()
		}

		if err := tx.Omit("Specifications", "Images", "Reviews", "Category").Create(product).Error; err != nil {
			return mapStoreError(err, "slug")
		}

		for _, spec := range req.Specifications {
			row := &models.ProductSpecification{
				ProductID: product.ID,
				Name:      spec.Name,
				Value:     spec.Value,
				SortOrder: spec.SortOrder,
			}
			if err := tx.Create(row).Error; err != nil {
				return mapStoreError(err, "specifications")
			}
			product.Specifications = append(product.Specifications, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product":  product.Slug,
		"category": product.CategoryID,
	}).Info("Product created")

	return product, nil
}

func (s *CatalogAdminService) UpdateProduct(ctx context.Context, slug string, req *UpdateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var productID uuid.UUID
	err := db.Transaction(func(tx *gorm.DB) error {
		// Category before product, the order DeactivateCategory locks in
		var categoryID uuid.UUID
		categoryActive := true
		if req.CategoryID != nil {
			categoryID = uuid.MustParse(*req.CategoryID)
			active, err := lockCategory(tx, categoryID)
			if err != nil {
				return err
			}
			categoryActive = active
		}

		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", slug).
			First(&product).Error; err != nil {
			return mapStoreError(err, "slug")
		}
		productID = product.ID

		updates := make(map[string]interface{})
		if req.CategoryID != nil {
			if product.IsActive && !categoryActive {
				return errInactiveCategory()
			}
			updates["category_id"] = categoryID
		}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Slug != nil {
			updates["slug"] = *req.Slug
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.ShortDescription != nil {
			updates["short_description"] = *req.ShortDescription
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.ClearOldPrice {
			updates["old_price"] = gorm.Expr("NULL")
		} else if req.OldPrice != nil {
			updates["old_price"] = *req.OldPrice
		}
		if req.MainImage != nil {
			updates["main_image"] = *req.MainImage
		}
		if req.IsFeatured != nil {
			updates["is_featured"] = *req.IsFeatured
		}

		if len(updates) == 0 {
			return nil
		}
		return mapStoreError(tx.Model(&product).Updates(updates).Error, "slug")
	})
	if err != nil {
		return nil, err
	}

	// Reload so derived fields reflect the stored row
	return s.productByID(ctx, productID)
}

func (s *CatalogAdminService) productByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Select("products.*", models.ReviewsCountSelect).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, created_at") }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, name") }).
		First(&product, "products.id = ?", id).Error
	if err != nil {
		return nil, mapStoreError(err, "id")
	}
	return &product, nil
}

// AddProductImage attaches an already stored image to the product.
func (s *CatalogAdminService) AddProductImage(ctx context.Context, slug string, req *AddImageRequest) (*models.ProductImage, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	image := &models.ProductImage{
		ProductID: product.ID,
		Image:     req.Image,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
	}
	if err := db.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	return image, nil
}

// DeleteProductImage removes the row, then the stored file best-effort.
func (s *CatalogAdminService) DeleteProductImage(ctx context.Context, imageID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var image models.ProductImage
	if err := db.First(&image, "id = ?", imageID).Error; err != nil {
		return mapStoreError(err, "id")
	}
	if err := db.Delete(&image).Error; err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.DeleteFile(image.Image); err != nil {
			logrus.WithError(err).WithField("key", image.Image).Warn("Failed to delete product image file")
		}
	}
	return nil
}

// AddSpecification fails with a *ValidationError when the product already
// has a specification with that name.
func (s *CatalogAdminService) AddSpecification(ctx context.Context, slug string, req *SpecificationRequest) (*models.ProductSpecification, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, mapStoreError(err, "slug")
	}

	spec := &models.ProductSpecification{
		ProductID: product.ID,
		Name:      req.Name,
		Value:     req.Value,
		SortOrder: req.SortOrder,
	}
	if err := db.Create(spec).Error; err != nil {
		return nil, mapStoreError(err, "name")
	}
	return spec, nil
}

func (s *CatalogAdminService) UpdateSpecification(ctx context.Context, specID uuid.UUID, req *SpecificationRequest) (*models.ProductSpecification, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var spec models.ProductSpecification
	if err := db.First(&spec, "id = ?", specID).Error; err != nil {
		return nil, mapStoreError(err, "id")
	}

	err := db.Model(&spec).Updates(map[string]interface{}{
		"name":       req.Name,
		"value":      req.Value,
		"sort_order": req.SortOrder,
	}).Error
	if err != nil {
		return nil, mapStoreError(err, "name")
	}
	return &spec, nil
}

func (s *CatalogAdminService) DeleteSpecification(ctx context.Context, specID uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.ProductSpecification{}, "id = ?", specID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete specification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// lockCategory takes a share lock on the category for the rest of tx, so a
// concurrent DeactivateCategory waits, and reports whether it is active.
// Active products need an active category.
func lockCategory(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var category models.Category
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id", "is_active").
		Where("id = ?", id).
		First(&category).Error; err != nil {
		if mapped := mapStoreError(err, "category_id"); mapped != ErrNotFound {
			return false, mapped
		}
		return false, newValidationError("category_id", "exists", "category does not exist")
	}
	return category.IsActive, nil
}

func errInactiveCategory() error {
	return newValidationError("category_id", "active", "category is inactive")
}

// resolveSlug prefers an explicit slug and falls back to the slugified name.
func resolveSlug(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if slug := utils.Slugify(name); slug != "" {
		return slug, nil
	}
	return "", newValidationError("slug", "required", "slug cannot be derived from name")
}
