package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Product{},
		&Conversation{},
	); err != nil {
		return err
	}

	// Recency index per participant; the feed's initial fetch orders by
	// last_message_at DESC NULLS LAST.
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_conversations_user_recency " +
			"ON conversations (user_id, last_message_at DESC NULLS LAST)",
	).Error; err != nil {
		return err
	}

	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_conversations_vendor_recency " +
			"ON conversations (vendor_id, last_message_at DESC NULLS LAST)",
	).Error
}
