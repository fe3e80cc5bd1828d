package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gearstack/asset-service/config"
	"github.com/gearstack/asset-service/internal/server"
	"github.com/gearstack/asset-service/pkg/broker"
	"github.com/gearstack/asset-service/pkg/cache"
	"github.com/gearstack/asset-service/pkg/database/postgres"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/gearstack/asset-service/pkg/search"

	assetH "github.com/gearstack/asset-service/internal/asset/handler"
	assetRepoPkg "github.com/gearstack/asset-service/internal/asset/repository"
	assetUCPkg "github.com/gearstack/asset-service/internal/asset/usecase"

	groupH "github.com/gearstack/asset-service/internal/group/handler"
	groupRepoPkg "github.com/gearstack/asset-service/internal/group/repository"
	groupUCPkg "github.com/gearstack/asset-service/internal/group/usecase"

	woH "github.com/gearstack/asset-service/internal/workorder/handler"
	woListenerPkg "github.com/gearstack/asset-service/internal/workorder/listener"
	woRepoPkg "github.com/gearstack/asset-service/internal/workorder/repository"
	woUCPkg "github.com/gearstack/asset-service/internal/workorder/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
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
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
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
	assetRepo := assetRepoPkg.NewPGRepository(db)
	groupRepo := groupRepoPkg.NewPGRepository(db)
	woRepo := woRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.MaintenanceTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()

	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to DB)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	assetUC := assetUCPkg.NewAssetUseCase(assetRepo, redisClient, esClient, appLogger)
	groupUC := groupUCPkg.NewGroupUseCase(groupRepo, assetRepo, redisClient, kafkaProducer, appLogger)
	woUC := woUCPkg.NewWorkOrderUseCase(woRepo, assetRepo, redisClient, kafkaProducer, appLogger)

	// 6.5 Start Maintenance Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	maintenanceListener := woListenerPkg.NewMaintenanceListener(kafkaConsumer, woUC, appLogger)
	go maintenanceListener.Start(ctx)

	// 7. Initialize Handlers and Router
	assetHandler := assetH.NewAssetHandler(assetUC, appLogger)
	groupHandler := groupH.NewGroupHandler(groupUC, appLogger)
	woHandler := woH.NewWorkOrderHandler(woUC, appLogger)

	router := server.NewRouter(cfg, assetHandler, groupHandler, woHandler)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
