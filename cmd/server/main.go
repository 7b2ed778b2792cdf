package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ramandaygy/tutor-app/internal/cache"
	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/handlers"
	"github.com/Ramandaygy/tutor-app/internal/llm"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories/postgres"
	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
	"github.com/Ramandaygy/tutor-app/internal/validator"
	"github.com/Ramandaygy/tutor-app/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.IsDevelopment() {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&models.TryoutQuestion{},
		&models.TryoutDocument{},
		&models.ActivityLog{},
		&models.FeedbackEntry{},
		&models.Progress{},
	); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, logger)
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	v := validator.New()
	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	progressService := services.NewProgressService(repo, cacheService, publisher, slogger)
	tryoutService := services.NewTryoutService(repo, v, publisher, slogger)
	chatService := services.NewChatService(repo, llmClient, progressService, publisher, slogger)
	exportService := services.NewExportService(repo, slogger)

	handlers.InitAuth(cfg.Casdoor)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.MaxMultipartMemory = 32 << 20

	handlerManager := handlers.NewHandlerManager(
		tryoutService,
		progressService,
		chatService,
		exportService,
		cfg,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
