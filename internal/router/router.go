// internal/router/router.go
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/handlers"
	"github.com/lebem/lebem-backend/internal/middleware"
	"github.com/lebem/lebem-backend/internal/services"
)

const version = "1.0.0"

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Category *handlers.CategoryHandler
	Product  *handlers.ProductHandler
	Review   *handlers.ReviewHandler
	Contact  *handlers.ContactHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler
}

// Options carries the cross-cutting pieces the routes are wired with.
type Options struct {
	Admins    middleware.AdminLookup
	Audit     gin.HandlerFunc
	MediaURL  string // served from MediaRoot when set
	MediaRoot string
}

// Initialize builds the services on db and returns the full engine.
func Initialize(db *gorm.DB, cfg *config.Config, notifier services.Notifier) (*gin.Engine, error) {
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}

	ratingService := services.NewRatingService(db)
	catalogService := services.NewCatalogService(db)
	catalogAdmin := services.NewCatalogAdminService(db, ratingService, storageService)
	reviewService := services.NewReviewService(db, ratingService, notifier, cfg.Catalog.ReviewAutoPublish)
	contactService := services.NewContactService(db, notifier)
	authService := services.NewAuthService(db, cfg.JWT)

	pageSize := cfg.Catalog.PageSize
	h := Handlers{
		Category: handlers.NewCategoryHandler(catalogService, catalogAdmin, pageSize),
		Product:  handlers.NewProductHandler(catalogService, catalogAdmin, pageSize),
		Review:   handlers.NewReviewHandler(reviewService, pageSize),
		Contact:  handlers.NewContactHandler(contactService, pageSize),
		Auth:     handlers.NewAuthHandler(authService),
		Admin:    handlers.NewAdminHandler(catalogService, catalogAdmin, catalogAdmin, storageService, contactService, pageSize),
	}

	if sqlDB, err := db.DB(); err == nil {
		h.Health = handlers.NewHealthHandler(sqlDB, version)
	} else {
		h.Health = handlers.NewHealthHandler(nil, version)
	}

	opts := Options{
		Admins: authService,
		Audit:  middleware.AuditLogMiddleware(db),
	}
	if !storageService.UsesS3() {
		opts.MediaURL = cfg.Storage.PublicURL
		opts.MediaRoot = cfg.Storage.LocalDir
	}

	return New(cfg, h, opts)
}

// New mounts the routes on a fresh engine. An invalid trusted proxy list is
// an error since ClientIP feeds rate limiting and IP capture.
func New(cfg *config.Config, h Handlers, opts Options) (*gin.Engine, error) {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())

	// An empty list trusts no proxy
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.GET("/health", h.Health.Health)

	if opts.MediaURL != "" && opts.MediaRoot != "" {
		r.Static(opts.MediaURL, opts.MediaRoot)
	}

	// Privileged routes share one guard; mutations are audited
	privileged := []gin.HandlerFunc{middleware.AdminRequired(opts.Admins)}
	if opts.Audit != nil {
		privileged = append(privileged, opts.Audit)
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", h.Auth.Login)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", h.Category.ListCategories)
			categories.GET("/:slug", h.Category.GetCategory)
			categories.GET("/:slug/products", h.Category.GetCategoryProducts)

			protected := categories.Group("", privileged...)
			{
				protected.DELETE("/:slug", h.Category.DeleteCategory)
				protected.DELETE("/:slug/force", h.Category.ForceDeleteCategory)
				protected.POST("/bulk-delete", h.Category.BulkDeleteCategories)
			}
		}

		products := v1.Group("/products")
		{
			products.GET("", h.Product.ListProducts)
			products.GET("/search", h.Product.SearchProducts)
			products.GET("/featured", h.Product.FeaturedProducts)
			products.GET("/popular", h.Product.PopularProducts)
			products.GET("/latest", h.Product.LatestProducts)
			products.GET("/filters-info", h.Product.FiltersInfo)
			products.GET("/:slug", h.Product.GetProduct)
			products.GET("/:slug/reviews", h.Product.ProductReviews)
			products.GET("/:slug/reviews/stats", h.Product.ReviewStats)

			protected := products.Group("", privileged...)
			{
				protected.DELETE("/:slug", h.Product.DeleteProduct)
				protected.POST("/bulk-delete", h.Product.BulkDeleteProducts)
			}
		}

		// Public submissions
		v1.POST("/reviews", middleware.SubmissionRateLimit(), h.Review.CreateReview)
		v1.POST("/contact", middleware.SubmissionRateLimit(), h.Contact.CreateMessage)

		admin := v1.Group("/admin", privileged...)
		{
			admin.GET("/dashboard", h.Admin.Dashboard)

			adminCategories := admin.Group("/categories")
			{
				adminCategories.GET("", h.Admin.ListCategories)
				adminCategories.POST("", h.Admin.CreateCategory)
				adminCategories.PATCH("/:slug", h.Admin.UpdateCategory)
				adminCategories.POST("/:slug/restore", h.Admin.RestoreCategory)
				adminCategories.POST("/:slug/image", middleware.UploadRateLimit(), h.Admin.UploadCategoryImage)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", h.Admin.ListProducts)
				adminProducts.POST("", h.Admin.CreateProduct)
				adminProducts.GET("/:slug", h.Admin.GetProduct)
				adminProducts.PATCH("/:slug", h.Admin.UpdateProduct)
				adminProducts.POST("/:slug/restore", h.Admin.RestoreProduct)
				adminProducts.DELETE("/:slug/purge", h.Admin.PurgeProduct)
				adminProducts.POST("/:slug/main-image", middleware.UploadRateLimit(), h.Admin.UploadMainImage)
				adminProducts.POST("/:slug/images", middleware.UploadRateLimit(), h.Admin.UploadProductImage)
				adminProducts.POST("/:slug/specifications", h.Admin.AddSpecification)
			}

			admin.DELETE("/images/:id", h.Admin.DeleteProductImage)
			admin.PUT("/specifications/:id", h.Admin.UpdateSpecification)
			admin.DELETE("/specifications/:id", h.Admin.DeleteSpecification)

			adminReviews := admin.Group("/reviews")
			{
				adminReviews.GET("", h.Review.ListReviews)
				adminReviews.POST("/bulk-status", h.Review.BulkSetStatus)
				adminReviews.POST("/bulk-delete", h.Review.BulkDeleteReviews)
				adminReviews.GET("/:id", h.Review.GetReview)
				adminReviews.PATCH("/:id", h.Review.UpdateReview)
				adminReviews.POST("/:id/toggle", h.Review.ToggleReview)
				adminReviews.DELETE("/:id", h.Review.DeleteReview)
				adminReviews.DELETE("/:id/purge", h.Review.PurgeReview)
			}

			adminContacts := admin.Group("/contacts")
			{
				adminContacts.GET("", h.Contact.ListMessages)
				adminContacts.POST("/bulk-delete", h.Contact.BulkDeleteMessages)
				adminContacts.GET("/:id", h.Contact.GetMessage)
				adminContacts.DELETE("/:id", h.Contact.DeleteMessage)
			}
		}
	}

	return r, nil
}
