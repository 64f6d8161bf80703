package configsdatabase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"etkinlik.link/configs/configsenv"
	"etkinlik.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config veritabanı bağlantı ayarlarını tutar.
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite dosya yolu veya ":memory:"
	TimeZone string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

var db *gorm.DB

// LoadConfig DB_* ortam değişkenlerinden ayarları okur.
func LoadConfig() Config {
	return Config{
		Driver:          configsenv.GetEnv("DB_DRIVER", DriverPostgres),
		Host:            configsenv.GetEnv("DB_HOST", "localhost"),
		Port:            configsenv.GetEnv("DB_PORT", "5432"),
		User:            configsenv.GetEnv("DB_USER", "postgres"),
		Password:        configsenv.GetEnv("DB_PASSWORD"),
		Name:            configsenv.GetEnv("DB_NAME", "etkinlik"),
		SSLMode:         configsenv.GetEnv("DB_SSLMODE", "disable"),
		Path:            configsenv.GetEnv("DB_PATH", "etkinlik.db"),
		TimeZone:        configsenv.GetEnv("DB_TIMEZONE", "UTC"),
		MaxOpenConns:    configsenv.GetEnvInt("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns:    configsenv.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: configsenv.GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		SlowThreshold:   configsenv.GetEnvDuration("DB_SLOW_THRESHOLD", 200*time.Millisecond),
	}
}

// Open verilen ayarlarla yeni bir gorm bağlantısı açar.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, cfg.TimeZone)
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	case DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:  NewGormLogger(cfg.SlowThreshold),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// sqlite tek yazıcı ile çalışır
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return conn, nil
}

// SQLiteDSN foreign key desteği açık bir sqlite bağlantı dizesi üretir.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		path = "file::memory:?cache=shared"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// InitDB ortam değişkenlerine göre global bağlantıyı kurar.
func InitDB() {
	cfg := LoadConfig()
	conn, err := Open(cfg)
	if err != nil {
		configslog.Log.Fatal("Veritabanına bağlanılamadı", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	db = conn
	configslog.SLog.Infof("Veritabanı bağlantısı kuruldu (%s)", cfg.Driver)
}

// GetDB global bağlantıyı döndürür. InitDB çağrılmadan kullanılmamalıdır.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("Veritabanı başlatılmadan GetDB çağrıldı")
	}
	return db
}

// CloseDB global bağlantıyı kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Veritabanı bağlantısı alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil && !errors.Is(err, gorm.ErrInvalidDB) {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı")
}
