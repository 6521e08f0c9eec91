// cmd/worker-manager/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"festival-matcher/internal/catalog"
	"festival-matcher/internal/common/camunda"
	"festival-matcher/internal/common/config"
	"festival-matcher/internal/common/database"
	"festival-matcher/internal/common/errors"
	commonhttp "festival-matcher/internal/common/http"
	"festival-matcher/internal/common/logger"
	"festival-matcher/internal/common/observability"
	"festival-matcher/internal/matching"
	"festival-matcher/pkg/refdata"

	bpp "festival-matcher/internal/workers/matching/build-preference-profile"
	rfm "festival-matcher/internal/workers/matching/rank-festival-matches"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml plus the APP_ENVIRONMENT overlay)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Reference data ---
	tables := refdata.Default()
	if path := cfg.ReferenceData.Path; path != "" {
		tables, err = refdata.LoadTables(path)
		if err != nil {
			stdErr := errors.NewReferenceDataInvalidError(path, err)
			zapLog.Fatal(stdErr.Message, zap.String("code", string(stdErr.Code)), zap.String("details", stdErr.Details))
		}
	}

	// --- Redis (catalog snapshots and result cache) ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		redisClient = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(ctx, func() error {
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Catalog ---
	source, closeSource := openCatalogSource(ctx, cfg, redisClient, log, zapLog)
	defer closeSource()

	store := catalog.NewStore(source, log)
	err = retryWithBackoff(ctx, func() error {
		_, err := store.Refresh(ctx)
		return err
	}, 5, 2*time.Second, log, "Catalog load")
	if err != nil {
		zapLog.Fatal("catalog unavailable after retries", zap.Error(err))
	}
	go store.Run(ctx, config.GetDuration(cfg.Catalog.RefreshInterval))

	engine := matching.NewEngine(matching.Options{
		Concurrency:      cfg.Matching.Concurrency,
		EligibilityFloor: cfg.Matching.EligibilityFloor,
		Tables:           tables,
	}, log)

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	registry := camunda.NewRegistry(zeebe.GetClient(), log)

	profileHandler, err := bpp.NewHandler(bpp.HandlerOptions{
		Config:        bpp.FromAppConfig(cfg),
		Catalog:       store,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create build-preference-profile handler", zap.Error(err))
	}
	registry.Start(bpp.TaskType, config.GetWorkerConfig(cfg, bpp.TaskType), profileHandler.Handle)

	var cacheClient *redis.Client
	if cfg.Matching.CacheEnabled {
		cacheClient = redisOf(redisClient)
	}
	rankHandler, err := rfm.NewHandler(rfm.HandlerOptions{
		Config:        rfm.FromAppConfig(cfg),
		Engine:        engine,
		Catalog:       store,
		Redis:         cacheClient,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create rank-festival-matches handler", zap.Error(err))
	}
	registry.Start(rfm.TaskType, config.GetWorkerConfig(cfg, rfm.TaskType), rankHandler.Handle)

	zapLog.Info("Workers registered", zap.Int("count", registry.Count()))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newStatusMux(store, zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// openCatalogSource builds the configured catalog source. The returned func
// releases whatever connection the source owns.
func openCatalogSource(ctx context.Context, cfg *config.Config, redisClient *database.RedisClient, log logger.Logger, zapLog *zap.Logger) (catalog.Source, func()) {
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
		return catalog.NewPostgresSource(pg.GetDB(), cfg.Catalog.Table), func() { pg.Close() }

	case "redis":
		if redisClient == nil {
			zapLog.Fatal("catalog source redis requires database.redis.address")
		}
		return catalog.NewRedisSource(redisClient.GetClient(), cfg.Catalog.RedisKey), func() {}

	case "http":
		return catalog.NewHTTPSource(commonhttp.NewClient(30*time.Second), cfg.Catalog.URL), func() {}

	default:
		return catalog.NewFileSource(cfg.Catalog.FilePath), func() {}
	}
}

func redisOf(c *database.RedisClient) *redis.Client {
	if c == nil {
		return nil
	}
	return c.GetClient()
}
