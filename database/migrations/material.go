package migrations

import (
	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateMaterialsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating materials table...")
	if err := db.AutoMigrate(&models.Material{}); err != nil {
		configslog.Log.Error("Failed to migrate materials table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Materials table migrated successfully")
	return nil
}
