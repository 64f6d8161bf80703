package database

import (
	"fmt"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/database/migrations"
	"etkinlik.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize migrasyon ve seed adımlarını tek bir transaction içinde çalıştırır.
func Initialize(db *gorm.DB, migrate bool, seed bool) error {
	if !migrate && !seed {
		configslog.SLog.Info("Migrate veya seed bayrağı belirtilmedi, işlem yapılmayacak.")
		return nil
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi başlıyor...")
	err := db.Transaction(func(tx *gorm.DB) error {
		if migrate {
			if err := RunMigrationsInOrder(tx); err != nil {
				return fmt.Errorf("migrasyon başarısız: %w", err)
			}
		} else {
			configslog.SLog.Info("Migrate bayrağı belirtilmedi, migrasyon adımı atlanıyor.")
		}

		if seed {
			if err := CheckAndRunSeeders(tx); err != nil {
				return fmt.Errorf("seeding başarısız: %w", err)
			}
		} else {
			configslog.SLog.Info("Seed bayrağı belirtilmedi, seeder adımı atlanıyor.")
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("Veritabanı başlatma işlemi geri alındı", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi başarıyla tamamlandı")
	return nil
}

// RunMigrationsInOrder tabloları FK bağımlılık sırasına göre oluşturur.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Migrasyonlar sırayla çalıştırılıyor...")

	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"users", migrations.MigrateUsersTable},
		{"events", migrations.MigrateEventsTable},
		{"participants", migrations.MigrateParticipantsTable},
		{"materials", migrations.MigrateMaterialsTable},
		{"feedback", migrations.MigrateFeedbackTable},
	}
	for _, step := range steps {
		configslog.SLog.Infof(" -> %s migrasyonu çalıştırılıyor...", step.name)
		if err := step.run(db); err != nil {
			configslog.Log.Error("Migrasyon başarısız oldu", zap.String("table", step.name), zap.Error(err))
			return err
		}
	}

	configslog.SLog.Info("Tüm migrasyonlar başarıyla çalıştırıldı.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info(" -> Demo kullanıcı seeder çalıştırılıyor...")
	if err := seeders.SeedDemoUser(db); err != nil {
		configslog.Log.Error("Demo kullanıcı seed işlemi başarısız", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tüm seeder'lar başarıyla kontrol edildi/çalıştırıldı.")
	return nil
}
