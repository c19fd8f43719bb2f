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

	"vendor-service/config"
	"vendor-service/internal/api"
	"vendor-service/internal/auth"
	"vendor-service/internal/broker"
	"vendor-service/internal/redisclient"
	"vendor-service/internal/service"
	"vendor-service/internal/store"
	"vendor-service/internal/util"
	"vendor-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting vendor service",
		zap.String("env", cfg.Server.Env),
		zap.String("version", cfg.Observ.ServiceVersion))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = uuid.New().String()
		logger.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	tp, err := util.InitTracer(util.TracerConfig{
		JaegerEndpoint: cfg.Observ.JaegerEndpoint,
		Env:            cfg.Server.Env,
		ServiceVersion: cfg.Observ.ServiceVersion,
		SampleRatio:    cfg.Observ.TraceSampleRatio,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema up to date")
	}

	ttl := time.Duration(cfg.Redis.IdempotencyTTLSeconds) * time.Second
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicVendor)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicVendor))

	eventPublisher := broker.NewEventPublisher(producer)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	services := api.Services{
		Vendors:     service.NewVendorService(db, redisClient, eventPublisher),
		Orders:      service.NewPurchaseOrderService(db, db, redisClient, eventPublisher),
		Performance: service.NewPerformanceService(db, db, eventPublisher),
		History:     service.NewHistoricalPerformanceService(db),
		Auth:        service.NewAuthService(db, tokens),
	}

	if cfg.Auth.AdminPassword != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := services.Auth.EnsureUser(seedCtx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		cancel()
		if err != nil {
			logger.Fatal("Failed to seed API user", zap.Error(err))
		}
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicVendor, cfg.Kafka.ConsumerGroup)
	performanceWorker := worker.NewPerformanceWorker(consumer, db)
	go func() {
		if err := performanceWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Performance worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, tokens, db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := performanceWorker.Stop(); err != nil {
		logger.Warn("Error stopping performance worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
