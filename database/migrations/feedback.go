package migrations

import (
	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateFeedbackTable feedback tablosunu ve (event_id, participant_id)
// benzersiz indeksini oluşturur. Upsert bu indekse dayanır.
func MigrateFeedbackTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating feedback table...")
	if err := db.AutoMigrate(&models.Feedback{}); err != nil {
		configslog.Log.Error("Failed to migrate feedback table", zap.Error(err))
		return err
	}
	if !db.Migrator().HasIndex(&models.Feedback{}, "idx_feedback_event_participant") {
		if err := db.Migrator().CreateIndex(&models.Feedback{}, "idx_feedback_event_participant"); err != nil {
			configslog.Log.Error("Failed to create unique index on feedback", zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("Feedback table migrated successfully")
	return nil
}
