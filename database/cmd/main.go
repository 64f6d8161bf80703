package main

import (
	"flag"
	"os"

	"etkinlik.link/configs/configsdatabase"
	"etkinlik.link/configs/configsenv"
	"etkinlik.link/configs/configslog"
	"etkinlik.link/database"
)

func main() {
	configsenv.Load()
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	seedFlag := flag.Bool("seed", false, "Veritabanı başlatma işlemini çalıştır (seederları içerir)")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	if err := database.Initialize(db, *migrateFlag, *seedFlag); err != nil {
		configslog.SyncLogger()
		os.Exit(1)
	}
	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
