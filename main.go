package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"etkinlik.link/configs"
	"etkinlik.link/configs/configsdatabase"
	"etkinlik.link/configs/configsenv"
	"etkinlik.link/configs/configslog"
	"etkinlik.link/configs/configsmail"
	"etkinlik.link/configs/configsstorage"
	"etkinlik.link/database"
	"etkinlik.link/handlers/api"
	"etkinlik.link/handlers/public"
	"etkinlik.link/pkg/filestore"
	"etkinlik.link/pkg/mailer"
	"etkinlik.link/pkg/tokens"
	"etkinlik.link/repositories"
	"etkinlik.link/routes"
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configsenv.Load()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	appCfg := configs.LoadAppConfig()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	if appCfg.AutoMigrate {
		if err := database.RunMigrationsInOrder(db); err != nil {
			configslog.Log.Fatal("Otomatik migrasyon başarısız", zap.Error(err))
		}
	}

	store, err := filestore.New(configsstorage.LoadConfig())
	if err != nil {
		configslog.Log.Fatal("Dosya deposu başlatılamadı", zap.Error(err))
	}

	mailCfg := configsmail.LoadConfig()
	queue := mailer.NewQueue(mailer.NewSender(mailCfg), mailer.OptionsFromConfig(mailCfg))
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	defer cancelQueue()
	queue.Start(queueCtx)

	engine := configs.SetupViews(appCfg.Name, appCfg.URL)
	issuer := tokens.NewIssuer(appCfg.JWTSecret, appCfg.Name, appCfg.AccessTTL, appCfg.RSVPTTL)

	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	participantRepo := repositories.NewParticipantRepository(db)
	materialRepo := repositories.NewMaterialRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	gate := services.NewGate(participantRepo)
	notifier := services.NewNotificationService(mailer.NewTemplateRenderer(engine), queue, issuer, appCfg.URL, appCfg.Name)

	authService := services.NewAuthService(userRepo, issuer)
	eventService := services.NewEventService(eventRepo, gate, store)
	participantService := services.NewParticipantService(participantRepo, eventRepo, gate, notifier, issuer)
	materialService := services.NewMaterialService(materialRepo, eventRepo, gate, store, appCfg.MaterialMaxBytes)
	feedbackService := services.NewFeedbackService(feedbackRepo, eventRepo, participantRepo, gate, notifier,
		services.ParseFeedbackPolicy(appCfg.FeedbackPolicy))

	app := fiber.New(fiber.Config{
		AppName: appCfg.Name,
		Views:   engine,
		// Materyal sınırının üstünde multipart başlıkları ve name alanı için pay bırakılır.
		BodyLimit: int(appCfg.MaterialMaxBytes) + 1<<20,
	})
	routes.SetupRoutes(app, routes.Handlers{
		Auth:         api.NewAuthHandler(authService),
		Event:        api.NewEventHandler(eventService),
		Participant:  api.NewParticipantHandler(participantService),
		Material:     api.NewMaterialHandler(materialService),
		Feedback:     api.NewFeedbackHandler(feedbackService),
		RSVP:         public.NewRSVPHandler(participantService),
		Resolver:     authService,
		AccessLogger: true,
	})

	go func() {
		addr := ":" + appCfg.Port
		configslog.SLog.Infof("Sunucu %s adresinde başlatılıyor (%s)", addr, appCfg.Env)
		if err := app.Listen(addr); err != nil {
			configslog.Log.Error("Sunucu durdu", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")

	if err := app.ShutdownWithTimeout(appCfg.ShutdownTimeout); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancelDrain()
	if err := queue.Shutdown(drainCtx); err != nil && !errors.Is(err, context.Canceled) {
		configslog.Log.Warn("E-posta kuyruğu tamamen boşaltılamadı", zap.Error(err))
	}
	configslog.SLog.Info("Uygulama kapatıldı")
}
