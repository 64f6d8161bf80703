package configsstorage

import "etkinlik.link/configs/configsenv"

const (
	DriverLocal = "local"
	DriverOSS   = "oss"
)

// Config dosya deposu ayarları.
type Config struct {
	Driver string

	LocalRoot string

	OSSEndpoint        string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSBucket          string
	OSSPrefix          string
}

func LoadConfig() Config {
	return Config{
		Driver:             configsenv.GetEnv("STORAGE_DRIVER", DriverLocal),
		LocalRoot:          configsenv.GetEnv("STORAGE_LOCAL_ROOT", "storage/app"),
		OSSEndpoint:        configsenv.GetEnv("OSS_ENDPOINT"),
		OSSAccessKeyID:     configsenv.GetEnv("OSS_ACCESS_KEY_ID"),
		OSSAccessKeySecret: configsenv.GetEnv("OSS_ACCESS_KEY_SECRET"),
		OSSBucket:          configsenv.GetEnv("OSS_BUCKET"),
		OSSPrefix:          configsenv.GetEnv("OSS_PREFIX"),
	}
}
