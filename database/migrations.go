package database

import (
	"smartapp-notes/smartapp/models"

	"gorm.io/gorm"
)

// RunMigrations creates or updates every table the app owns.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.Todo{},
		&models.Event{},
	)
}
