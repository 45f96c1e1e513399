package bootstrap

import (
	"context"
	"log/slog"

	"github.com/edudesk/edudesk/internal/control"
	"github.com/edudesk/edudesk/internal/scheduler"
	"github.com/edudesk/edudesk/internal/server"
	"github.com/edudesk/edudesk/internal/store"
	"github.com/edudesk/edudesk/internal/worker"
)

// ShutdownComponents holds the components that need graceful shutdown.
// Any field may be nil; only the set fields are stopped.
type ShutdownComponents struct {
	Server     *server.Server
	Control    *control.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	Store      store.Store
}

// GracefulShutdown stops the application components in order:
// 1. HTTP surfaces (stop accepting new requests)
// 2. Scheduler (stop producing new jobs)
// 3. Worker pool (finish in-flight jobs)
// 4. Store (release connections)
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Control != nil {
		if err := components.Control.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.Store != nil {
		components.Store.Close()
	}

	slog.Info(LogMsgShutdownComplete)
}
