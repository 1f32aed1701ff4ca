package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sportsvenue/service-payment/internal/application"
	"github.com/sportsvenue/service-payment/internal/config"
	paymentEvents "github.com/sportsvenue/service-payment/internal/events"
	"github.com/sportsvenue/service-payment/internal/handler"
	"github.com/sportsvenue/service-payment/internal/lock"
	"github.com/sportsvenue/service-payment/internal/platform/database"
	"github.com/sportsvenue/service-payment/internal/platform/health"
	"github.com/sportsvenue/service-payment/internal/platform/kafka"
	"github.com/sportsvenue/service-payment/internal/platform/logger"
	"github.com/sportsvenue/service-payment/internal/platform/metrics"
	"github.com/sportsvenue/service-payment/internal/platform/middleware"
	"github.com/sportsvenue/service-payment/internal/repository"
	"go.uber.org/zap"
)

const serviceName = "service-payment"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-payment",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	db, err := database.Connect(dbConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.PaymentModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Booking lock: shared through Redis when configured, per process otherwise
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisConfig.Addr != "" {
		redisClient, err := lock.NewRedisClient(context.Background(),
			cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, cfg.BookingLockTTL, zapLogger)
		zapLogger.Info("using redis booking lock", zap.String("addr", cfg.RedisConfig.Addr))
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	unitOfWork := repository.NewGormUnitOfWork(db)

	// Initialize application services
	processor := application.NewPaymentProcessor(
		unitOfWork,
		paymentRepo,
		locker,
		paymentEvents.NewPaymentEventPublisher(kafkaProducer),
		paymentMetrics,
		zapLogger,
	)
	syncService := application.NewBookingSyncService(bookingRepo, zapLogger)

	// Initialize Kafka consumer for booking events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "payment-service"
	bookingConsumer := paymentEvents.NewBookingEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		syncService,
		zapLogger,
	)
	defer bookingConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting booking event consumer")
		if err := bookingConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("booking event consumer failed", zap.Error(err))
			}
		}
	}()

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestIDMiddleware(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(httpMetrics.Middleware())

	// Register health check and metrics routes
	healthHandler, err := health.NewGormHandler(db, serviceName)
	if err != nil {
		zapLogger.Fatal("failed to initialize health handler", zap.Error(err))
	}
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// Register payment routes
	api := router.Group("/api")
	api.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	handler.NewPaymentHandler(processor).RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-payment...")

	// Cancel Kafka consumer
	consumerCancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-payment stopped")
}
