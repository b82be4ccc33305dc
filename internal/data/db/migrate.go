package db

import (
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Plans
		&types.Pei{},

		// Activity bank
		&types.Activity{},

		// Support attachments (extracted text only)
		&types.RagFile{},
	)
}
