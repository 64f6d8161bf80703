package migrations

import (
	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateParticipantsTable events tablosu zaten var olmalı (FK için).
func MigrateParticipantsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating participants table...")
	if err := db.AutoMigrate(&models.Participant{}); err != nil {
		configslog.Log.Error("Failed to migrate participants table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Participants table migrated successfully")
	return nil
}
