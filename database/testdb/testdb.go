// Package testdb testler için migrasyonları uygulanmış bellek içi sqlite bağlantısı sağlar.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"etkinlik.link/configs/configsdatabase"
	"etkinlik.link/database"

	"gorm.io/gorm"
)

var seq atomic.Int64

// New her test için ayrı, izole bir veritabanı açar.
func New(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", seq.Add(1))

	db, err := configsdatabase.Open(configsdatabase.Config{
		Driver:        configsdatabase.DriverSQLite,
		Path:          path,
		SlowThreshold: time.Second,
	})
	if err != nil {
		tb.Fatalf("testdb: open: %v", err)
	}
	if err := database.RunMigrationsInOrder(db); err != nil {
		tb.Fatalf("testdb: migrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
