package syncer

import (
	"context"
	"log/slog"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/event"
	"github.com/edudesk/edudesk/internal/queue"
)

// Reconcile runs the startup/periodic sync pass: fetch authoritative
// state, adopt or recover depending on what the server returned, then
// drain the offline queue. Safe to call repeatedly.
func (s *Service) Reconcile(ctx context.Context) queue.DrainResult {
	state, err := s.client.FullState(ctx)
	switch {
	case err != nil:
		// Offline or server error: the cached snapshot stays
		// authoritative and queued mutations wait for the next pass.
		slog.Warn(LogMsgServerUnreachable, "error", err)

	case state.IsEmpty:
		// A fresh server must never overwrite local data with nothing.
		slog.Info(LogMsgServerEmpty)
		s.recoverLocal(ctx)

	default:
		s.adopt(ctx, state)
	}

	return s.Drain(ctx)
}

// adopt replaces the in-memory state with the server's and re-persists
// every snapshot key. Optimized responses carry placeholder avatars
// which are filled in from a secondary fetch before persisting.
func (s *Service) adopt(ctx context.Context, state domain.FullState) {
	if state.IsOptimized {
		slog.Info(LogMsgAvatarMergeStarted, "students", len(state.Students))
		avatars, err := s.client.StudentAvatars(ctx)
		if err != nil {
			// Keep the placeholders; the next reconcile retries.
			slog.Warn(LogMsgAvatarMergeFailed, "error", err)
		} else {
			state.MergeAvatars(avatars)
		}
	}

	s.mu.Lock()
	s.state = state
	persistState(s.store, &s.state)
	s.mu.Unlock()

	slog.Info(LogMsgStateAdopted,
		"students", len(state.Students),
		"optimized", state.IsOptimized)
	s.publish(ctx, event.NewStateAdoptedEvent(len(state.Students), recordCount(&state), state.IsOptimized))
}

// recoverLocal scans the snapshot directory for legacy per-entity files
// and, when any are imported, reloads state and flags a manual push.
func (s *Service) recoverLocal(ctx context.Context) {
	recovered, err := s.store.RecoverLegacy()
	if err != nil {
		slog.Error("Legacy recovery scan failed", "error", err)
		return
	}
	if len(recovered) == 0 {
		return
	}

	state, err := loadState(s.store)
	if err != nil {
		slog.Error("Failed to reload state after recovery", "error", err)
		return
	}

	s.mu.Lock()
	s.state = state
	s.needsSync = true
	s.mu.Unlock()

	slog.Warn(LogMsgRecoveryNeedsSync, "recovered_keys", recovered)
	s.publish(ctx, event.NewRecoveryCompletedEvent(recovered, true))
}

// refreshFromServer re-adopts authoritative state after a dropped
// conflict. Offline is tolerated; the refetch flag was already consumed
// and the divergence resolves on a later reconcile.
func (s *Service) refreshFromServer(ctx context.Context) {
	state, err := s.client.FullState(ctx)
	if err != nil {
		slog.Warn(LogMsgServerUnreachable, "error", err)
		return
	}
	if state.IsEmpty {
		return
	}
	s.adopt(ctx, state)
}

func recordCount(fs *domain.FullState) int {
	return len(fs.Students) + len(fs.Assignments) + len(fs.Events) +
		len(fs.Behavior) + len(fs.Finance) + len(fs.StaffTasks) + len(fs.Books)
}

// DrainJob adapts the service to the worker pool so scheduled drains run
// off the request path.
type DrainJob struct {
	Service *Service
}

func (j DrainJob) Process(ctx context.Context) error {
	j.Service.Drain(ctx)
	return nil
}
