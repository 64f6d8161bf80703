package configsenv

import (
	"os"
	"strconv"
	"strings"
	"time"

	"etkinlik.link/configs/configslog"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Load .env dosyasını yükler. Dosya yoksa sistem ortam değişkenleri kullanılır.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		configslog.SLog.Info(".env dosyası bulunamadı, sistem ortam değişkenleri kullanılıyor")
		return
	}
	configslog.SLog.Info(".env dosyası yüklendi")
}

// GetEnv anahtarın değerini döndürür, tanımlı değilse varsayılanı kullanır.
func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, defaultValue int) int {
	raw := GetEnv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz sayısal ortam değişkeni, varsayılan kullanılıyor",
			zap.String("key", key), zap.String("value", raw), zap.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func GetEnvInt64(key string, defaultValue int64) int64 {
	raw := GetEnv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		configslog.Log.Warn("Geçersiz sayısal ortam değişkeni, varsayılan kullanılıyor",
			zap.String("key", key), zap.String("value", raw), zap.Int64("default", defaultValue))
		return defaultValue
	}
	return v
}

func GetEnvBool(key string, defaultValue bool) bool {
	raw := GetEnv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetEnvDuration "30s", "5m" gibi süre değerlerini okur.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz süre ortam değişkeni, varsayılan kullanılıyor",
			zap.String("key", key), zap.String("value", raw), zap.Duration("default", defaultValue))
		return defaultValue
	}
	return v
}
