package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"points-exchange/config"
	"points-exchange/db"
	"points-exchange/handlers"
	"points-exchange/services"
	"points-exchange/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log := utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✖ Config error: %v", err)
	}

	gormDB, err := db.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("✖ Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB, log); err != nil {
		log.Fatalf("✖ Failed to migrate database: %v", err)
	}

	if err := utils.InitR2(utils.R2Settings{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		Bucket:          cfg.R2Bucket,
		CDNBaseURL:      cfg.CDNBaseURL,
	}); err != nil {
		log.Fatalf("✖ Failed to initialize R2 client: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // avatars only
	})

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	ledgerService := services.NewLedgerService(gormDB)
	profileService := services.NewProfileService(gormDB, ledgerService)
	referralService := services.NewReferralService(gormDB, ledgerService)
	rewardService := services.NewRewardService(gormDB, ledgerService)
	channelService := services.NewChannelService(gormDB, ledgerService)
	authService := services.NewAuthService(gormDB, profileService, cfg.JWTSecret)
	bonusService := services.NewBonusService(gormDB, ledgerService, log)

	bonusService.StartSchedulers()

	handlers.SetupAuthRoutes(app, authService, profileService)
	handlers.SetupProfileRoutes(app, authService, profileService, referralService, ledgerService)
	handlers.SetupChannelRoutes(app, authService, channelService)
	handlers.SetupRPCRoutes(app, authService, rewardService, referralService)
	handlers.SetupStreamRoutes(app, authService, gormDB, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Errorf("Server error: %v", err)
		}
	}()

	log.Infof("✅ Server running on %s", cfg.ListenAddr)
	log.Info("✅ Daily bonus and channel sweep schedulers running")

	<-ctx.Done()
	log.Info("Shutting down server...")
	_ = app.Shutdown()
}
