package configsmail

import (
	"time"

	"etkinlik.link/configs/configsenv"
)

// Config SMTP ve kuyruk ayarları.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	Workers      int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
}

func LoadConfig() Config {
	user := configsenv.GetEnv("SMTP_USER")
	return Config{
		Host:         configsenv.GetEnv("SMTP_HOST"),
		Port:         configsenv.GetEnvInt("SMTP_PORT", 587),
		User:         user,
		Password:     configsenv.GetEnv("SMTP_PASSWORD"),
		From:         configsenv.GetEnv("MAIL_FROM", user),
		Workers:      configsenv.GetEnvInt("MAIL_WORKERS", 2),
		QueueSize:    configsenv.GetEnvInt("MAIL_QUEUE_SIZE", 256),
		MaxAttempts:  configsenv.GetEnvInt("MAIL_MAX_ATTEMPTS", 3),
		RetryBackoff: configsenv.GetEnvDuration("MAIL_RETRY_BACKOFF", 2*time.Second),
	}
}

// Enabled SMTP sunucusu tanımlı mı?
func (c Config) Enabled() bool {
	return c.Host != ""
}
