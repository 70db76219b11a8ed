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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wavemark/commerce-service/config"
	"github.com/wavemark/commerce-service/internal/auth"
	"github.com/wavemark/commerce-service/internal/broker"
	"github.com/wavemark/commerce-service/internal/cache"
	"github.com/wavemark/commerce-service/internal/payment"
	"github.com/wavemark/commerce-service/internal/search"

	catH "github.com/wavemark/commerce-service/internal/catalog/handler"
	catRepoPkg "github.com/wavemark/commerce-service/internal/catalog/repository"
	catUCPkg "github.com/wavemark/commerce-service/internal/catalog/usecase"

	coH "github.com/wavemark/commerce-service/internal/checkout/handler"
	coListenerPkg "github.com/wavemark/commerce-service/internal/checkout/listener"
	coRepoPkg "github.com/wavemark/commerce-service/internal/checkout/repository"
	coUCPkg "github.com/wavemark/commerce-service/internal/checkout/usecase"

	stH "github.com/wavemark/commerce-service/internal/store/handler"
	stRepoPkg "github.com/wavemark/commerce-service/internal/store/repository"
	stUCPkg "github.com/wavemark/commerce-service/internal/store/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := newPostgres(&cfg.Postgres)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	stRepo := stRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	coRepo := coRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("connected to Kafka consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 5.9 Initialize Payments
	payments := payment.NewStripeProvider(cfg.Stripe.SecretKey)

	// 6. Initialize UseCases
	stUC := stUCPkg.NewStoreUseCase(stRepo, appLogger)
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, esClient, appLogger)
	coUC := coUCPkg.NewCheckoutUseCase(coRepo, payments, appLogger)

	// 6.5 Initialize Listeners
	paymentListener := coListenerPkg.NewPaymentListener(kafkaConsumer, coUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go paymentListener.Start(ctx)

	// 7. Initialize Handlers and Router
	router := mux.NewRouter()
	router.Use(auth.Middleware)

	stH.NewStoreHandler(stUC, appLogger).RegisterRoutes(router)
	catH.NewCatalogHandler(catUC, stUC, appLogger).RegisterRoutes(router)
	coH.NewCheckoutHandler(coUC, stUC, appLogger).RegisterRoutes(router)

	// 8. Start HTTP Server
	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Encoding = cfg.Logger.Encoding
	zcfg.DisableCaller = cfg.Logger.DisableCaller
	zcfg.DisableStacktrace = cfg.Logger.DisableStacktrace

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func newPostgres(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	return db, nil
}
