// cmd/dashboard-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wellness-dashboard/internal/alerts"
	"wellness-dashboard/internal/chatbot"
	"wellness-dashboard/internal/common/config"
	"wellness-dashboard/internal/common/database"
	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/common/metrics"
	"wellness-dashboard/internal/common/observability"
	"wellness-dashboard/internal/generator"
	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/server"
	"wellness-dashboard/internal/store"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wellness dashboard server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("dashboard-server")
	defer obs.Shutdown()

	ctx := context.Background()
	stores := store.NewManager()

	// --- Init PostgreSQL (optional: without it the service runs on generated
	// data only) ---
	var pgStore *store.PostgresStore
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, continuing with generated data", zap.Error(err))
		} else {
			defer pg.Close()
			zapLog.Info("PostgreSQL connected successfully")

			pgStore = store.NewPostgresStore(pg.DB, log)
			if err := pgStore.Init(ctx); err != nil {
				zapLog.Fatal("schema init failed", zap.Error(err))
			}

			if cfg.Demo.SeedOnEmpty {
				if err := seedIfEmpty(ctx, pgStore, cfg, zapLog); err != nil {
					zapLog.Fatal("demo seed failed", zap.Error(err))
				}
			}
		}
	}

	// --- Init Redis (optional: without it chat replies are uncached) ---
	var cache *redis.Client
	if cfg.Database.Redis.Enabled {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, chat replies uncached", zap.Error(err))
		} else {
			defer rc.Close()
			zapLog.Info("Redis connected successfully")
			cache = rc.Client
		}
	}

	refresh := newRefreshFunc(stores, pgStore, cfg, log)

	// --- First snapshot load ---
	err = retryWithBackoff(func() error {
		return refresh(ctx)
	}, 5, 2*time.Second, zapLog, "initial snapshot load")
	if err != nil {
		zapLog.Fatal("initial snapshot load failed", zap.Error(err))
	}
	zapLog.Info("initial snapshot loaded", zap.Int("employees", stores.Current().Len()))

	// --- Build the chatbot and HTTP surface ---
	bot := chatbot.New(chatbot.NewResources(), stores, log, chatbot.Options{
		Cache:    cache,
		CacheTTL: time.Duration(cfg.Chat.CacheTTL) * time.Millisecond,
		Obs:      obs,
	})

	srv, err := server.New(bot, stores, refresh, cfg.Chat.MaxSessions, log)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	stop := make(chan struct{})

	// --- Refresh loop ---
	if cfg.Refresh.Interval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Refresh.Interval) * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := refresh(ctx); err != nil {
						log.Error("snapshot refresh failed", map[string]interface{}{
							"error": err.Error(),
						})
					}
				case <-stop:
					return
				}
			}
		}()
	}

	// --- Alert sweeps ---
	if cfg.Alerts.Enabled {
		notifier, err := alerts.NewNotifier(ctx, alerts.Config{
			StressThreshold: cfg.Alerts.StressThreshold,
			SMSThreshold:    cfg.Alerts.SMSThreshold,
			Cooldown:        time.Duration(cfg.Alerts.Cooldown) * time.Millisecond,
			AWSRegion:       cfg.Alerts.AWSRegion,
			FromEmail:       cfg.Alerts.FromEmail,
			EmailRecipients: cfg.Alerts.EmailRecipients,
			SMSRecipients:   cfg.Alerts.SMSRecipients,
		}, log)
		if err != nil {
			zapLog.Fatal("alert notifier init failed", zap.Error(err))
		}

		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Alerts.Interval) * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := notifier.Scan(ctx, stores.Current()); err != nil {
						log.Error("alert sweep failed", map[string]interface{}{
							"error": err.Error(),
						})
					}
				case <-stop:
					return
				}
			}
		}()
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	close(stop)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}

// seedIfEmpty inserts a generated demo dataset when the database has no
// employees yet.
func seedIfEmpty(ctx context.Context, pgStore *store.PostgresStore, cfg *config.Config, zapLog *zap.Logger) error {
	hasData, err := pgStore.HasData(ctx)
	if err != nil {
		return err
	}
	if hasData {
		return nil
	}

	records := generator.Generate(cfg.Demo.Employees, cfg.Demo.Seed)
	if err := pgStore.InsertRecords(ctx, records); err != nil {
		return err
	}

	zapLog.Info("seeded demo data",
		zap.Int("employees", len(records)),
		zap.Int64("seed", cfg.Demo.Seed),
	)
	return nil
}

// newRefreshFunc builds the snapshot reload used by the refresh loop and the
// /api/refresh endpoint. With postgres it loads the latest metric per
// employee; without it the seeded generator dataset is rebuilt. Both paths
// order records by department then name so name matching stays deterministic.
func newRefreshFunc(stores *store.Manager, pgStore *store.PostgresStore, cfg *config.Config, log logger.Logger) server.RefreshFunc {
	return func(ctx context.Context) error {
		var records []models.EmployeeRecord
		var err error

		if pgStore != nil {
			records, err = pgStore.LoadLatest(ctx)
			if err != nil {
				metrics.SnapshotRefreshes.WithLabelValues("failure").Inc()
				return err
			}
		} else {
			records = generator.Generate(cfg.Demo.Employees, cfg.Demo.Seed)
			sort.SliceStable(records, func(i, j int) bool {
				if records[i].Department != records[j].Department {
					return records[i].Department < records[j].Department
				}
				return records[i].Name < records[j].Name
			})
		}

		snap := store.NewSnapshot(records)
		stores.Swap(snap)

		metrics.SnapshotRefreshes.WithLabelValues("success").Inc()
		metrics.SnapshotEmployees.Set(float64(snap.Len()))

		log.Debug("snapshot swapped", map[string]interface{}{
			"employees": snap.Len(),
			"version":   snap.Version(),
		})
		return nil
	}
}
