package seeders

import (
	"errors"
	"strings"

	"etkinlik.link/configs/configsenv"
	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoUser SEED_USER_EMAIL tanımlıysa bir düzenleyici hesabı oluşturur.
// Hesap zaten varsa dokunulmaz.
func SeedDemoUser(db *gorm.DB) error {
	email := strings.ToLower(configsenv.GetEnv("SEED_USER_EMAIL"))
	password := configsenv.GetEnv("SEED_USER_PASSWORD")
	if email == "" || password == "" {
		configslog.SLog.Info("SEED_USER_EMAIL/SEED_USER_PASSWORD tanımlı değil, demo kullanıcı atlanıyor.")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		configslog.SLog.Debugf("Demo kullanıcı '%s' zaten mevcut, oluşturma atlanıyor.", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Demo kullanıcı kontrol edilirken veritabanı hatası", zap.String("email", email), zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Name:         configsenv.GetEnv("SEED_USER_NAME", "Demo Organizer"),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Demo kullanıcı oluşturulamadı", zap.String("email", email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Demo kullanıcı '%s' oluşturuldu (ID: %d).", email, user.ID)
	return nil
}
