package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureContentVersionIndexes(db)
}

// EnsureContentVersionIndexes adds the history-listing index. The unique
// (entity_type, entity_id, version) index comes from the model tags and is what
// makes concurrent version assignment fail instead of duplicating numbers.
func EnsureContentVersionIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_content_version_entity_created
		ON content_version (entity_type, entity_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_content_version_entity_created: %w", err)
	}
	return nil
}
