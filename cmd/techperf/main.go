package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yorch88/tech-performance/internal/adapters/http/api"
	"github.com/yorch88/tech-performance/internal/app"
	"github.com/yorch88/tech-performance/internal/config"
	"github.com/yorch88/tech-performance/pkg/logger"
	"github.com/yorch88/tech-performance/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(cfg.InputDir, cfg.ReportsDir,
		app.WithLogger(log),
		app.WithScanInterval(time.Duration(cfg.ScanIntervalSeconds)*time.Second),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueCapacity(cfg.JobQueueSize),
		app.WithMaxRuns(cfg.MaxRuns),
		app.WithSeenCacheSize(cfg.SeenCacheSize),
		app.WithRepairStation(cfg.RepairStation),
		app.WithStationOrder(cfg.StationOrder),
		app.WithDeleteProcessed(cfg.DeleteProcessed),
	)
	svc.Start(ctx)
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
