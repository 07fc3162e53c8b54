package app

import (
	"context"
	"fmt"

	"printshop_backend/internal/config"
	"printshop_backend/internal/database"
	"printshop_backend/internal/handlers"
	"printshop_backend/internal/logger"
	"printshop_backend/internal/middleware"
	"printshop_backend/internal/notifier"
	"printshop_backend/internal/routes"
	"printshop_backend/internal/services"
	"printshop_backend/internal/storage"
	"printshop_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter, container := SetupRouter(cfg, gormDB)

	// Background sweeps run for the lifetime of the process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewCleanupWorker(gormDB, container.CleanupService,
		cfg.CleanupRetention(), cfg.CleanupInterval()).Start(ctx)
	workers.NewReconcileWorker(gormDB, container.ReconcileService,
		cfg.ReconcileInterval()).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full service graph and the gin engine. Split out of
// Run so tests can stand up the HTTP surface against their own database
// handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var n notifier.Notifier
	if cfg.Email.SMTPHost != "" {
		n = notifier.NewEmailNotifier(cfg)
	} else {
		logger.Warn("SMTP not configured, order notifications disabled")
		n = notifier.Noop{}
	}

	container := services.NewServiceContainer(storageInstance, n,
		services.FileServiceConfig{MaxSize: cfg.Upload.MaxSize})

	appHandlers := handlers.NewAppHandlers(container, storageInstance, cfg)

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	routes.RegisterRoutes(ginRouter, appHandlers, cfg)

	return ginRouter, container
}
