// cmd/assistant/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"devops-assistant/internal/api"
	"devops-assistant/internal/common/config"
	"devops-assistant/internal/common/database"
	"devops-assistant/internal/common/devops"
	"devops-assistant/internal/common/llm"
	"devops-assistant/internal/common/logger"
	"devops-assistant/internal/common/observability"
	"devops-assistant/internal/dispatch"
	"devops-assistant/internal/dispatch/memory"
	"devops-assistant/internal/dispatch/registry"
	"devops-assistant/internal/dispatch/router"
	"devops-assistant/internal/intents"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
			delay *= 2 // Exponential backoff
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

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("devops-assistant")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry (postgres source mode only) ---
	var db *sql.DB
	if cfg.DevOps.Mode == "postgres" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		db = pg.DB
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch with retry (project search, optional) ---
	var esClient *database.ElasticsearchClient
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch not configured, project search disabled")
	}

	// --- Init Redis with retry (redis memory backend only) ---
	var redisClient *database.RedisClient
	if cfg.Memory.Backend == "redis" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init data source and capability client ---
	source, err := devops.New(cfg, db, log)
	if err != nil {
		zapLog.Fatal("data source init failed", zap.Error(err))
	}

	llmClient := llm.NewClient(&llm.Config{
		BaseURL:    cfg.APIs.GenAI.BaseURL,
		APIKey:     cfg.APIs.GenAI.APIKey,
		Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxRetries: cfg.APIs.GenAI.MaxRetries,
	}, log)

	// --- Register intents ---
	reg := registry.New()
	deps := intents.Deps{
		Config: cfg,
		LLM:    llmClient,
		Source: source,
		Logger: log,
	}
	if esClient != nil {
		deps.ES = esClient.Client
	}
	if err := intents.RegisterAll(reg, deps); err != nil {
		zapLog.Fatal("intent registration failed", zap.Error(err))
	}
	zapLog.Info("Intents registered", zap.Int("count", reg.Len()))

	// --- Conversation memory ---
	ttl := time.Duration(cfg.Memory.TTLHours) * time.Hour
	var mem memory.Store
	if cfg.Memory.Backend == "redis" {
		mem = memory.NewRedisStore(redisClient.Client, ttl, log)
	} else {
		inmem := memory.NewInMemoryStore(ttl, log)
		inmem.StartPruning(ctx, 10*time.Minute)
		mem = inmem
	}

	// --- Dispatcher and HTTP server ---
	rt := router.New(reg, llmClient, cfg.Router.ConfidenceThreshold, cfg.Router.RecentTurns, log)
	dispatcher := dispatch.New(reg, rt, mem, llmClient, obs, log)
	server := api.NewServer(dispatcher, config.GetDuration(cfg.Server.RequestTimeout), cfg.App.Version, log)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Wait for shutdown signal ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	cancel()

	zapLog.Info("Shutdown complete")
}
