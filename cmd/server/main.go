package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tourism-platform/internal/config"
	"tourism-platform/internal/handlers"
	"tourism-platform/internal/repository"
	"tourism-platform/internal/services"
	"tourism-platform/pkg/database"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewStructuredLogger("tourism-api", version, logLevel)
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting tourism platform API server", logging.Fields{
		"version":          version,
		"server_host":      cfg.Server.Host,
		"server_port":      cfg.Server.Port,
		"accounts_backend": cfg.Accounts.Backend,
		"weather_key_set":  cfg.Weather.APIKey != "",
	})

	metricsCollector := metrics.NewCollector("tourism_platform")

	// Reference tables
	data, err := repository.LoadDataset(ctx, repository.DatasetPaths{
		States: cfg.Data.StatesFile,
		Cities: cfg.Data.CitiesFile,
		Risk:   cfg.Data.RiskFile,
	}, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to load datasets", logging.Fields{}, err)
	}

	// Account store
	accountRepo, closeAccounts, err := openAccountStore(ctx, cfg, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to open account store", logging.Fields{
			"backend": cfg.Accounts.Backend,
		}, err)
	}
	defer closeAccounts()

	aliases, err := services.LoadPlaceAliases(cfg.Weather.AliasesFile)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to load weather aliases", logging.Fields{
			"path": cfg.Weather.AliasesFile,
		}, err)
	}

	// Initialize services
	catalogService := services.NewCatalogService(data, logger, metricsCollector)
	discoveryService := services.NewDiscoveryService(data, logger, metricsCollector)
	compareService := services.NewCompareService(data, logger, metricsCollector)
	trendService := services.NewTrendService(data, logger, metricsCollector)
	clusterService := services.NewClusterService(data, logger, metricsCollector)
	accountService := services.NewAccountService(accountRepo, cfg.Accounts.BcryptCost, logger, metricsCollector)
	weatherService := services.NewWeatherService(services.WeatherOptions{
		APIKey:      cfg.Weather.APIKey,
		BaseURL:     cfg.Weather.BaseURL,
		CountryCode: cfg.Weather.CountryCode,
		Timeout:     cfg.Weather.Timeout,
		Attempts:    cfg.Weather.Attempts,
		CacheTTL:    cfg.Weather.CacheTTL,
	}, aliases, logger, metricsCollector)

	router := handlers.NewRouter(handlers.RouterConfig{
		Tourism: handlers.NewTourismHandler(
			catalogService, discoveryService, compareService, trendService, clusterService,
			logger, metricsCollector,
		),
		Account:     handlers.NewAccountHandler(accountService, logger, metricsCollector),
		Weather:     handlers.NewWeatherHandler(weatherService, logger, metricsCollector),
		System:      handlers.NewSystemHandler(data, accountService, logger, metricsCollector),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
		Metrics:     metricsCollector,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}

// openAccountStore connects the configured backend. The returned func
// releases its connections.
func openAccountStore(ctx context.Context, cfg *config.Config, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (repository.AccountRepository, func(), error) {
	switch cfg.Accounts.Backend {
	case config.BackendPostgres:
		pgConfig := cfg.Database.Postgres()
		if cfg.Accounts.AutoMigrate {
			if err := database.RunMigrations(ctx, pgConfig, cfg.Accounts.MigrationsPath, database.Up, logger); err != nil {
				return nil, nil, err
			}
		}
		db, err := database.NewPostgresDB(ctx, pgConfig, logger, metricsCollector)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresAccountRepository(db, logger, metricsCollector), func() { _ = db.Close() }, nil

	case config.BackendMongo:
		mdb, err := database.NewMongoDB(ctx, &database.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewMongoAccountRepository(ctx, mdb.Collection(cfg.Mongo.Collection), mdb.HealthCheck, logger, metricsCollector)
		if err != nil {
			_ = mdb.Close(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = mdb.Close(context.Background()) }, nil

	default:
		logger.Warn(ctx, "[ACCOUNTS] Using in-memory account store; accounts are lost on restart", logging.Fields{})
		return repository.NewMemoryAccountRepository(), func() {}, nil
	}
}
