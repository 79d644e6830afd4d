package orm

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the sessions, conversations, notes and cache tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Session{}, &Turn{}, &Note{}, &CacheEntry{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
