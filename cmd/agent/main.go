package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/edudesk/edudesk/internal/apiclient"
	"github.com/edudesk/edudesk/internal/bootstrap"
	"github.com/edudesk/edudesk/internal/config"
	"github.com/edudesk/edudesk/internal/control"
	"github.com/edudesk/edudesk/internal/event"
	"github.com/edudesk/edudesk/internal/handler"
	"github.com/edudesk/edudesk/internal/metrics"
	"github.com/edudesk/edudesk/internal/queue"
	"github.com/edudesk/edudesk/internal/scheduler"
	"github.com/edudesk/edudesk/internal/snapshot"
	"github.com/edudesk/edudesk/internal/syncer"
	"github.com/edudesk/edudesk/internal/worker"
)

const (
	serviceName      = "edudesk-agent"
	workerCount      = 1
	workerQueueSize  = 4
	reconcileTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg, err := config.LoadAgent()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logDir := filepath.Join(cfg.StateDir, "logs")
	logFile, err := bootstrap.SetupLogger(cfg.LogLevel, cfg.LogFormat, serviceName, handler.Version, cfg.Environment, logDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	snapStore, err := snapshot.NewStore(cfg.StateDir)
	if err != nil {
		slog.Error("Failed to open snapshot store", "error", err, "dir", cfg.StateDir)
		os.Exit(1)
	}

	q, err := queue.New(snapStore)
	if err != nil {
		slog.Error("Failed to load offline queue", "error", err)
		os.Exit(1)
	}

	bus := event.NewMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)

	client := apiclient.New(cfg.ServerURL, cfg.APIKey)

	svc, err := syncer.NewService(client, snapStore, q, bus)
	if err != nil {
		slog.Error("Failed to initialize sync service", "error", err)
		os.Exit(1)
	}

	// First pass adopts server state (or recovers local data) and
	// replays anything queued from previous sessions.
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	svc.Reconcile(ctx)
	cancel()

	pool := worker.NewPool(workerCount, workerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.SyncInterval, syncer.DrainJob{Service: svc})

	var ctrl *control.Server
	if cfg.ControlAddr != "" {
		ctrl = control.New(cfg.ControlAddr, svc, client)
		go func() {
			if err := ctrl.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Control server failed", "error", err)
			}
		}()
	}

	slog.Info("Agent started",
		"server_url", cfg.ServerURL,
		"state_dir", cfg.StateDir,
		"sync_interval", cfg.SyncInterval,
		"control_addr", cfg.ControlAddr,
		"pending_actions", svc.PendingActions())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Control:    ctrl,
		Scheduler:  sched,
		WorkerPool: pool,
	})
}
