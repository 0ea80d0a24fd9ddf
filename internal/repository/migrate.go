package repository

import "gorm.io/gorm"

// AutoMigrate creates/updates the schema for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&serviceModel{},
		&slotModel{},
		&bookingModel{},
		&settingModel{},
	)
}
