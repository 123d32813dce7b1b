package database

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/models"
)

func testDSN() string {
	if dsn := os.Getenv("LEBEM_TEST_DSN"); dsn != "" {
		return dsn
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=lebem_test sslmode=disable connect_timeout=2"
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(testDSN(), config.DatabaseConfig{LogLevel: "silent", MaxOpenConns: 10})
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	t.Cleanup(func() { Close(db) })

	require.NoError(t, RunMigrations(db))
	return db
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestOpenInvalidDSN(t *testing.T) {
	_, err := Open("host=localhost port=1 user=x dbname=x sslmode=disable connect_timeout=1", config.DatabaseConfig{LogLevel: "silent"})
	assert.Error(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run must not fail on existing tables and indexes
	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"categories", "products", "product_images", "product_specifications", "reviews", "contact_messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.False(t, db.Migrator().HasColumn(&models.Product{}, "reviews_count"))
	assert.False(t, db.Migrator().HasColumn(&models.Category{}, "products_count"))
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)

	slug := "tx-rollback-probe"
	db.Where("slug = ?", slug).Delete(&models.Category{})

	boom := errors.New("boom")
	err := WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Category{Name: "Probe", Slug: slug, IsActive: true}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count)
	assert.Zero(t, count)
}

func TestSeedAdmin(t *testing.T) {
	db := openTestDB(t)

	// Isolated from other packages sharing the database
	tx := db.Begin()
	defer tx.Rollback()
	require.NoError(t, tx.Exec("DELETE FROM admin_users").Error)

	require.NoError(t, SeedAdmin(tx, config.AdminConfig{Username: "root", Password: "Secret123!"}))
	require.NoError(t, SeedAdmin(tx, config.AdminConfig{Username: "other", Password: "x"}))

	var admins []models.AdminUser
	require.NoError(t, tx.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)
	assert.NoError(t, admins[0].CheckPassword("Secret123!"))
}
