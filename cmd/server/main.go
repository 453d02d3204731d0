package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hekayat-server/internal/config"
	httpdelivery "hekayat-server/internal/delivery/http"
	"hekayat-server/internal/delivery/websocket"
	"hekayat-server/internal/logger"
	"hekayat-server/internal/repository"
	"hekayat-server/internal/service"
	"hekayat-server/pkg/ai"
)

func main() {
	// .env опционален: в контейнере конфигурация приходит из окружения.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting hekayat-server", zap.String("environment", cfg.Environment))

	ctx := context.Background()

	// --- Хранилища ---
	dbClient, err := repository.NewDatabaseClient(ctx, repository.RTDBConfig{
		CredentialsPath: cfg.FirebaseCredentialsPath,
		DatabaseURL:     cfg.FirebaseDatabaseURL,
		BasePath:        cfg.FirebaseBasePath,
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to Realtime Database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cancelPing()
	defer redisClient.Close()

	storyRepo := repository.NewRTDBStoryRepository(dbClient, cfg.FirebaseBasePath, zapLogger)
	userRepo := repository.NewRTDBUserRepository(dbClient, cfg.FirebaseBasePath, zapLogger)
	forumRepo := repository.NewRTDBForumRepository(dbClient, cfg.FirebaseBasePath, zapLogger)
	collabRepo := repository.NewRTDBCollabRepository(dbClient, cfg.FirebaseBasePath, zapLogger)
	messageRepo := repository.NewRTDBMessageRepository(dbClient, cfg.FirebaseBasePath, zapLogger)
	sessionRepo := repository.NewRedisSessionRepository(redisClient, zapLogger)

	// --- Генератор контента ---
	generator, err := ai.New(ai.Config{
		ClientType:  cfg.AIClientType,
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		Model:       cfg.AIModel,
		ImageModel:  cfg.AIImageModel,
		Timeout:     cfg.AITimeout,
		MaxAttempts: cfg.AIMaxAttempts,
		BaseDelay:   cfg.AIBaseRetryDelay,
	})
	if err != nil {
		zapLogger.Fatal("Failed to create AI client", zap.Error(err))
	}

	// --- Сервисы ---
	view := service.NewStoryView()
	syncService := service.NewSyncService(
		storyRepo, forumRepo, collabRepo, userRepo,
		generator, view, cfg.SyncTimeout, zapLogger,
	)
	storyService := service.NewStoryService(storyRepo, generator, view, zapLogger)
	authService := service.NewAuthService(
		userRepo, sessionRepo,
		cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, zapLogger,
	)
	forumService := service.NewForumService(forumRepo, zapLogger)
	collabService := service.NewCollabService(collabRepo, zapLogger)

	hub := websocket.NewHub(zapLogger)
	hub.Start()

	messageService := service.NewMessageService(messageRepo, userRepo, hub, zapLogger)

	// Первый проход синхронизации на старте, дальше раз в час.
	go syncService.SyncAll(ctx)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			syncService.SyncAll(ctx)
		}
	}()

	// --- HTTP сервер ---
	handler := httpdelivery.NewHandler(
		storyService, syncService, authService,
		forumService, collabService, messageService,
		zapLogger,
	)
	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
	}, handler, hub)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}
