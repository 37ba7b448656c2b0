package dbhelper

import (
	"fmt"

	"gorm.io/gorm"

	"sareeapi/models"
)

func SetupCleaner(db *gorm.DB) func() {
	return func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.CatalogEntry{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.ExportRecord{})
	}
}

func Migrate(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}
