package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/fekuna/omnipos-inventory-snapshot/config"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/auth"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/pipeline"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/platform/shopify"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/snapshot"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/broker"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/cache"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/database/postgres"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"

	catUCPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/catalog/usecase"
	invUCPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/inventory/usecase"
	pipeUCPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/pipeline/usecase"
	refRepoPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/reference/repository"
	refUCPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/reference/usecase"
	snapRepoPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/snapshot/repository"
	snapUCPkg "github.com/fekuna/omnipos-inventory-snapshot/internal/snapshot/usecase"
	triggerH "github.com/fekuna/omnipos-inventory-snapshot/internal/trigger/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	once := flag.Bool("once", false, "run one snapshot and exit instead of serving the trigger")
	flag.Parse()

	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Snapshot.Timezone)
	if err != nil {
		appLogger.Fatal("Unknown snapshot time zone", zap.String("timezone", cfg.Snapshot.Timezone), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(ctx, &postgres.Config{
		DSN:             cfg.Postgres.DSN,
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
	appLogger.Info("Connected to PostgreSQL database")

	// 4. Initialize Repositories
	snapRepo := snapRepoPkg.NewPGRepository(db, cfg.Snapshot.Table)
	if err := snapRepo.EnsureSchema(ctx); err != nil {
		appLogger.Fatal("Could not prepare snapshot table", zap.Error(err))
	}

	refRepo, err := refRepoPkg.New(cfg.Reference.Path, cfg.Reference.Sheet, cfg.Reference.Range)
	if err != nil {
		appLogger.Fatal("Unsupported reference table", zap.Error(err))
	}

	// 5. Initialize Redis (optional run lock)
	var locker snapshot.Locker
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, &cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Kafka Producer (optional run event)
	var publisher pipeline.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 6. Initialize Commerce Platform Client
	shop, err := shopify.NewClient(shopify.Options{
		Domain:            cfg.Shopify.Domain,
		AccessToken:       cfg.Shopify.AccessToken,
		APIVersion:        cfg.Shopify.APIVersion,
		Timeout:           time.Duration(cfg.Shopify.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Shopify.RequestsPerSecond,
	})
	if err != nil {
		appLogger.Fatal("Invalid Shopify settings", zap.Error(err))
	}

	// 7. Initialize UseCases
	snapUC := snapUCPkg.NewSnapshotUseCase(snapRepo, locker, snapUCPkg.Options{
		Location:   loc,
		LockTTL:    time.Duration(cfg.Redis.LockTTLSeconds) * time.Second,
		LockPrefix: cfg.Snapshot.Table,
	}, appLogger)

	pipeUC := pipeUCPkg.NewPipelineUseCase(pipeUCPkg.Dependencies{
		Snapshot:  snapUC,
		Reference: refUCPkg.NewReferenceUseCase(refRepo, appLogger),
		Catalog:   catUCPkg.NewCatalogUseCase(shop, cfg.Shopify.PageSize, appLogger),
		Inventory: invUCPkg.NewInventoryUseCase(shop, cfg.Shopify.BatchSize, cfg.Shopify.BatchConcurrency, appLogger),
		Publisher: publisher,
	}, pipeUCPkg.Settings{
		LocationID: cfg.Shopify.LocationID,
		ErrorCap:   cfg.Snapshot.ErrorCap,
	}, appLogger)

	if *once {
		summary, err := pipeUC.Run(ctx)
		if err != nil {
			appLogger.Error("Snapshot run failed", zap.Error(err))
			appLogger.Sync()
			os.Exit(1)
		}
		appLogger.Info("Snapshot run finished",
			zap.String("status", string(summary.Status)),
			zap.Int("rows", summary.RowsInserted),
		)
		return
	}

	// 8. Start HTTP Trigger
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          triggerH.ErrorHandler(appLogger),
	})
	triggerH.MapRoutes(app,
		triggerH.NewTriggerHandler(pipeUC, appLogger),
		auth.SecretMiddleware(cfg.Trigger.Header, cfg.Trigger.Secret, appLogger),
	)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	appLogger.Info("Starting HTTP trigger", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		appLogger.Error("Shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
