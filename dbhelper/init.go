package dbhelper

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sareeapi/config"
	"sareeapi/models"
)

func SetupDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	if err := Migrate(db, &models.ExportRecord{}, &models.CatalogEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SetupTestDB connects to the local test database. ok is false when postgres is not reachable.
func SetupTestDB() (*gorm.DB, bool) {
	cfg := config.DatabaseConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     envOr("DB_USERNAME", "sareeapi"),
		Password: envOr("DB_PASSWORD", "sareeapi"),
		Name:     envOr("DB_NAME", "sareeapi_test"),
	}
	db, err := SetupDB(cfg)
	if err != nil {
		return nil, false
	}
	return db, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
