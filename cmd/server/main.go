package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/studyhall/lesson-booking-service/config"
	"github.com/studyhall/lesson-booking-service/internal/pkg/broker"
	"github.com/studyhall/lesson-booking-service/internal/pkg/cache"
	"github.com/studyhall/lesson-booking-service/internal/pkg/database/postgres"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"github.com/studyhall/lesson-booking-service/internal/pkg/search"
	"go.uber.org/zap"

	lessonH "github.com/studyhall/lesson-booking-service/internal/lesson/handler"
	lessonListenerPkg "github.com/studyhall/lesson-booking-service/internal/lesson/listener"
	lessonRepoPkg "github.com/studyhall/lesson-booking-service/internal/lesson/repository"
	lessonUCPkg "github.com/studyhall/lesson-booking-service/internal/lesson/usecase"

	orderH "github.com/studyhall/lesson-booking-service/internal/order/handler"
	orderRepoPkg "github.com/studyhall/lesson-booking-service/internal/order/repository"
	orderUCPkg "github.com/studyhall/lesson-booking-service/internal/order/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
		logConfig.DisableCaller = cfg.Logger.DisableCaller
		logConfig.DisableStacktrace = cfg.Logger.DisableStacktrace
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	lessonRepo := lessonRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (caching and capacity locks disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()

	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	lessonUC := lessonUCPkg.NewLessonUseCase(lessonRepo, redisClient, esClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, lessonRepo, kafkaProducer, appLogger)

	// 6.5 Initialize Listeners
	lessonListener := lessonListenerPkg.NewLessonListener(kafkaConsumer, lessonUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lessonListener.Start(ctx)

	// 7. Initialize Handlers and Router
	lessonHandler := lessonH.NewLessonHandler(lessonUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	lessonHandler.RegisterRoutes(r)
	orderHandler.RegisterRoutes(r)

	// 8. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
