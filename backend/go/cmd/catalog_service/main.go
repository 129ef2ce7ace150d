package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"filmoteca/backend/go/internal/catalog_service/api"
	"filmoteca/backend/go/internal/catalog_service/events"
	"filmoteca/backend/go/internal/catalog_service/service"
	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/config"
	kafkadb "filmoteca/backend/go/internal/database/kafka"
	"filmoteca/backend/go/internal/database/mysql"
	redisdb "filmoteca/backend/go/internal/database/redis"
	httpserver "filmoteca/backend/go/pkg/http"
	"filmoteca/backend/go/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("catalog_service", "", "")
	appLogger.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer mysql.Close()
	appLogger.Info("Database connection established")

	if err := mysql.Migrate(db); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	cache, err := service.NewCacheFromConfig(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	if cfg.Cache.Backend == "redis" {
		defer redisdb.Close()
	}
	appLogger.Info("Related movie cache: " + cfg.Cache.Backend)

	// Purge the related cache whenever the catalog is re-imported
	if kafkaCfg := &cfg.Databases.Kafka; kafkaCfg.Enabled {
		if err := kafkadb.EnsureTopic(ctx, kafkaCfg); err != nil {
			appLogger.Warn(err.Error())
		}
		consumer := events.NewConsumer(kafkadb.NewReader(kafkaCfg, kafkaCfg.GroupID+"-"+uuid.NewString()), appLogger)
		defer consumer.Close()
		consumer.Start(ctx, events.PurgeRelatedCache(cache, appLogger))
		appLogger.Info("Catalog event consumer started on topic " + kafkaCfg.Topic)
	}

	// Initialize dependencies (Store -> Service -> Handler)
	catalogStore := store.NewStore(db)
	catalogService := service.NewService(catalogStore, cache, service.LimitsFromConfig(cfg.Catalog), appLogger)
	apiHandler := api.NewHandler(catalogService, appLogger)
	appLogger.Info("Dependencies injected")

	router, err := api.SetupRouter(apiHandler, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Router setup completed")

	srv, err := httpserver.NewServer(cfg, router)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	appLogger.Info("Starting server on " + srv.Addr())
	if err := srv.Run(ctx); err != nil {
		appLogger.Error(err.Error())
		return
	}
	appLogger.Info("Server stopped")
}
