package models

import "gorm.io/gorm"

// Migrate creates or updates the four tables. Parents are migrated before
// children so foreign keys can be declared.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Album{},
		&File{},
		&Photo{},
	)
}
