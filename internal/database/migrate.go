package database

import (
	"ripple/internal/models"

	"gorm.io/gorm"
)

// Registry lists every model included in automatic migration. Order matters
// for foreign keys: referenced tables first.
func Registry() []any {
	return []any{
		&models.User{},
		&models.Content{},
		&models.Comment{},
		&models.Interaction{},
		&models.Follow{},
	}
}

// Migrate applies automatic migrations for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Registry()...)
}
