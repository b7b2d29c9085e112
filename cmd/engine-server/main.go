// cmd/engine-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"talent-engine/internal/api"
	"talent-engine/internal/common/config"
	"talent-engine/internal/common/database"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/observability"
	"talent-engine/internal/engine"
	"talent-engine/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting engine server",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("engine-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Postgres ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "postgres initialization")
	if err != nil {
		zapLog.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pg.Close()

	var st store.Store = store.NewPostgresStore(pg.DB, log)

	// --- Redis profile cache (optional) ---
	if cfg.Database.Redis.Address != "" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer rdb.Close()

		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, profile cache disabled", zap.Error(err))
		} else {
			ttl := time.Duration(cfg.Engine.CacheTTL) * time.Second
			st = store.NewCachedStore(st, rdb.Client, ttl, log)
			zapLog.Info("profile cache enabled", zap.Duration("ttl", ttl))
		}
	}

	// --- Elasticsearch prefilter (optional) ---
	if cfg.Engine.Prefilter == "elasticsearch" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := es.Ping(); err != nil {
			zapLog.Fatal("elasticsearch unavailable", zap.Error(err))
		}
		prefilter := store.NewElasticPrefilter(es.Client, cfg.Database.Elasticsearch.Index, log)
		st = store.NewPrefilteredStore(st, prefilter)
		zapLog.Info("elasticsearch prefilter enabled", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	eng := engine.New(st, log, engine.OptionsFromConfig(cfg.Engine))
	server := api.NewServer(eng, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}
