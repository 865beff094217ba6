// The engine binary runs the Study Progress Engine's maintenance side:
// periodic session reconciliation, goal aggregation over the cleaned
// data, and an ops listener for health and metrics. The tracker and
// review scheduler are embedded by the host application, which shares
// the same store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mhalter/studytrack/internal/config"
	"github.com/mhalter/studytrack/internal/domain/goal"
	"github.com/mhalter/studytrack/internal/domain/notify"
	"github.com/mhalter/studytrack/internal/domain/session"
	"github.com/mhalter/studytrack/internal/metrics"
	"github.com/mhalter/studytrack/internal/scheduler"
	"github.com/mhalter/studytrack/internal/sqlite"
)

func main() {
	// A local .env overrides nothing already exported.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionRepo := sqlite.NewSessionRepository(db)
	goalRepo := sqlite.NewGoalRepository(db)
	notificationRepo := sqlite.NewNotificationRepository(db)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	notifySvc := notify.NewService(notificationRepo, logger)
	aggregator := goal.NewAggregator(goalRepo, sessionRepo, notifySvc, nil, collector, logger)
	reconciler := session.NewReconciler(sessionRepo, collector, session.ReconcilerConfig{}, logger)

	sched := scheduler.New(reconciler, aggregator, sessionRepo,
		time.Duration(cfg.Engine.ReconcileIntervalMinutes)*time.Minute, logger)
	sched.Start()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: mux}

	go func() {
		logger.Info("ops listener starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ops listener failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops listener shutdown", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
