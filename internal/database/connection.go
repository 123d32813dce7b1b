// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/models"
)

const migrationLockID = 7311984

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return Open(cfg.DSN(), cfg)
}

// Open connects to dsn and applies the pool limits from cfg.
func Open(dsn string, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Replicas starting together serialize on the advisory lock
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockID).Error; err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}

		// gen_random_uuid() on PostgreSQL < 13
		if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
			return fmt.Errorf("failed to create pgcrypto extension: %w", err)
		}

		// Parents before children so the FK constraints resolve
		return tx.AutoMigrate(
			&models.Category{},
			&models.Product{},
			&models.ProductImage{},
			&models.ProductSpecification{},
			&models.Review{},
			&models.ContactMessage{},
			&models.AdminUser{},
			&models.AuditLog{},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Catalog listings
		"CREATE INDEX IF NOT EXISTS idx_categories_sort ON categories(sort_order, name)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_views ON products(views_count DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_rating ON products(rating DESC)",

		// Child ordering
		"CREATE INDEX IF NOT EXISTS idx_product_images_order ON product_images(product_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_product_specifications_order ON product_specifications(product_id, sort_order)",

		// Moderation queues
		"CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_admin_action ON audit_logs(admin_id, action)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedAdmin creates the bootstrap administrator when no admin exists yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	var adminCount int64
	if err := db.Model(&models.AdminUser{}).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	if cfg.Password == "" {
		logrus.Warn("No admin users exist and ADMIN_PASSWORD is empty; skipping admin bootstrap")
		return nil
	}

	admin := &models.AdminUser{
		Username: cfg.Username,
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.Password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithField("username", admin.Username).Info("Default admin user created")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit().Error
}
