package migration

import (
	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/domain"
)

// Run executes AutoMigrate for all eventcast tables and seeds the
// default channel if none exists.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Channel{},
		&domain.Tag{},
		&domain.Picture{},
		&domain.Event{},
		&domain.EventRevision{},
		&domain.Chapter{},
	); err != nil {
		return err
	}

	// Seed - every event needs at least one channel to live in
	var count int64
	db.Model(&domain.Channel{}).Count(&count)
	if count == 0 {
		return db.Create(&domain.Channel{Name: "Main", Slug: "main"}).Error
	}

	return nil
}
