// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rozgar-workers/internal/common/camunda"
	"rozgar-workers/internal/common/config"
	"rozgar-workers/internal/common/database"
	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/observability"
	"rozgar-workers/internal/matching"
	"rozgar-workers/internal/store"

	ir "rozgar-workers/internal/workers/profile/invalidate-recommendations"
	gr "rozgar-workers/internal/workers/recommendation/get-recommendations"
	sjm "rozgar-workers/internal/workers/recommendation/score-job-match"
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

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build stores and the matching engine ---
	jobs := store.NewJobs(pg.DB)
	profiles := store.NewProfiles(pg.DB, redis.Client, cfg.Matching.ProfileTTL(), log)
	accounts := store.NewAccounts(pg.DB)

	engine := matching.NewEngine(matching.Config{
		FreshnessWindow: cfg.Matching.FreshnessWindow(),
		MaxExact:        cfg.Matching.MaxExact,
		MaxRelated:      cfg.Matching.MaxRelated,
		DefaultPageSize: cfg.Matching.DefaultPageSize,
		MaxPageSize:     cfg.Matching.MaxPageSize,
	}, jobs, profiles, accounts, matching.SystemClock{}, log)

	// --- Register Workers ---
	var workers []*camunda.Worker

	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				Timeout: workerTimeout(cfg.Workers[gr.TaskType], gr.LoadConfig().Timeout),
			},
			engine, obs, log,
		)
		workers = append(workers, camunda.StartWorker(
			zeebeClient, gr.TaskType, maxJobsActive(cfg.Workers[gr.TaskType], cfg.Camunda), handler.Handle, zapLog,
		))
	}

	if cfg.Workers[sjm.TaskType].Enabled {
		handler := sjm.NewHandler(
			&sjm.Config{
				Timeout: workerTimeout(cfg.Workers[sjm.TaskType], sjm.LoadConfig().Timeout),
			},
			jobs, profiles, log,
		)
		workers = append(workers, camunda.StartWorker(
			zeebeClient, sjm.TaskType, maxJobsActive(cfg.Workers[sjm.TaskType], cfg.Camunda), handler.Handle, zapLog,
		))
	}

	if cfg.Workers[ir.TaskType].Enabled {
		handler := ir.NewHandler(
			&ir.Config{
				Timeout: workerTimeout(cfg.Workers[ir.TaskType], ir.LoadConfig().Timeout),
			},
			engine, log,
		)
		workers = append(workers, camunda.StartWorker(
			zeebeClient, ir.TaskType, maxJobsActive(cfg.Workers[ir.TaskType], cfg.Camunda), handler.Handle, zapLog,
		))
	}

	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// workerTimeout prefers the per-worker configured timeout over the package
// default.
func workerTimeout(wcfg config.WorkerConfig, fallback time.Duration) time.Duration {
	if wcfg.Timeout > 0 {
		return time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return fallback
}

// maxJobsActive prefers the per-worker setting over the broker-wide one.
func maxJobsActive(wcfg config.WorkerConfig, ccfg config.CamundaConfig) int {
	if wcfg.MaxJobsActive > 0 {
		return wcfg.MaxJobsActive
	}
	if ccfg.MaxJobsActive > 0 {
		return ccfg.MaxJobsActive
	}
	return 10
}
