// internal/handlers/services.go
package handlers

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

// The interfaces below are the slices of the services each handler needs.

type CatalogReader interface {
	ListCategories(ctx context.Context, filter services.CategoryFilter) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, filter services.ProductFilter) ([]models.Product, int64, error)
	ListCategoryProducts(ctx context.Context, slug string, filter services.ProductFilter) ([]models.Product, int64, error)
	SearchProducts(ctx context.Context, filter services.ProductFilter) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	GetProductForAdmin(ctx context.Context, slug string) (*models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	PopularProducts(ctx context.Context) ([]models.Product, error)
	LatestProducts(ctx context.Context) ([]models.Product, error)
	FiltersInfo(ctx context.Context) (*services.FiltersInfo, error)
	ProductReviews(ctx context.Context, slug string, params utils.PaginationParams) ([]services.PublicReview, int64, error)
	ReviewStats(ctx context.Context, slug string) (*services.ReviewStats, error)
}

type CatalogCoordinator interface {
	DeactivateCategory(ctx context.Context, slug string, force bool) (*services.CategoryDeactivation, error)
	BulkDeactivateCategories(ctx context.Context, ids []uuid.UUID, force bool) (*services.BulkCategoryDeactivation, error)
	RestoreCategory(ctx context.Context, slug string) (*models.Category, error)
	DeactivateProduct(ctx context.Context, slug string) (*services.ProductDeactivation, error)
	BulkDeactivateProducts(ctx context.Context, ids []uuid.UUID) (*services.ProductDeactivation, error)
	RestoreProduct(ctx context.Context, slug string) (*services.ProductRestoration, error)
	HardDeleteProduct(ctx context.Context, slug string) (*services.HardDeletion, error)
}

type CatalogEditor interface {
	CreateCategory(ctx context.Context, req *services.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, slug string, req *services.UpdateCategoryRequest) (*models.Category, error)
	CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, slug string, req *services.UpdateProductRequest) (*models.Product, error)
	AddProductImage(ctx context.Context, slug string, req *services.AddImageRequest) (*models.ProductImage, error)
	DeleteProductImage(ctx context.Context, imageID uuid.UUID) error
	AddSpecification(ctx context.Context, slug string, req *services.SpecificationRequest) (*models.ProductSpecification, error)
	UpdateSpecification(ctx context.Context, specID uuid.UUID, req *services.SpecificationRequest) (*models.ProductSpecification, error)
	DeleteSpecification(ctx context.Context, specID uuid.UUID) error
}

type ReviewManager interface {
	Create(ctx context.Context, req *services.CreateReviewRequest, ipAddress string) (*models.Review, error)
	List(ctx context.Context, filter services.ReviewFilter) ([]models.Review, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, id uuid.UUID, req *services.UpdateReviewRequest) (*models.Review, error)
	Toggle(ctx context.Context, id uuid.UUID) (*models.Review, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	BulkSetStatus(ctx context.Context, req *services.BulkReviewStatusRequest) (*services.BulkReviewResult, error)
	BulkDeactivate(ctx context.Context, ids []uuid.UUID) (*services.BulkReviewResult, error)
}

type ContactManager interface {
	Create(ctx context.Context, req *services.CreateContactRequest, ipAddress string) (*models.ContactMessage, error)
	List(ctx context.Context, filter services.ContactFilter) ([]models.ContactMessage, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type DashboardProvider interface {
	Dashboard(ctx context.Context) (*services.DashboardStats, error)
}

type Authenticator interface {
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
}

type MediaUploader interface {
	UploadImage(file multipart.File, header *multipart.FileHeader, options services.UploadOptions) (*services.UploadResult, error)
	GetDefaultUploadOptions(category string) services.UploadOptions
}
