package configs

import (
	"time"

	"etkinlik.link/configs/configsenv"
	"etkinlik.link/configs/configslog"
)

const defaultMaterialMaxBytes = 10 << 20 // 10 MiB

// AppConfig uygulama genel ayarları.
type AppConfig struct {
	Env  string
	Name string
	Port string
	URL  string

	JWTSecret string
	AccessTTL time.Duration
	RSVPTTL   time.Duration

	FeedbackPolicy   string
	MaterialMaxBytes int64
	AutoMigrate      bool
	ShutdownTimeout  time.Duration
}

// LoadAppConfig ortam değişkenlerinden AppConfig üretir.
func LoadAppConfig() AppConfig {
	cfg := AppConfig{
		Env:              configsenv.GetEnv("APP_ENV", "development"),
		Name:             configsenv.GetEnv("APP_NAME", "Etkinlik"),
		Port:             configsenv.GetEnv("APP_PORT", "3000"),
		URL:              configsenv.GetEnv("APP_URL", "http://localhost:3000"),
		JWTSecret:        configsenv.GetEnv("JWT_SECRET"),
		AccessTTL:        time.Duration(configsenv.GetEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RSVPTTL:          time.Duration(configsenv.GetEnvInt("RSVP_TTL_DAYS", 60)) * 24 * time.Hour,
		FeedbackPolicy:   configsenv.GetEnv("FEEDBACK_POLICY", "public"),
		MaterialMaxBytes: configsenv.GetEnvInt64("MATERIAL_MAX_BYTES", defaultMaterialMaxBytes),
		AutoMigrate:      configsenv.GetEnvBool("DB_AUTO_MIGRATE", false),
		ShutdownTimeout:  configsenv.GetEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			configslog.Log.Fatal("JWT_SECRET production ortamında zorunludur")
		}
		configslog.SLog.Warn("JWT_SECRET tanımlı değil, geliştirme anahtarı kullanılıyor")
		cfg.JWTSecret = "development-secret-change-me"
	}
	return cfg
}
