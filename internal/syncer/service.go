// Package syncer owns the offline-first synchronization core: the
// mutation dispatcher, the startup/periodic reconciler, and the local
// state they share. One Service instance is constructed at app start and
// carries all sync state explicitly; there are no package-level
// singletons.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/edudesk/edudesk/internal/apiclient"
	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/event"
	"github.com/edudesk/edudesk/internal/metrics"
	"github.com/edudesk/edudesk/internal/queue"
	"github.com/edudesk/edudesk/internal/snapshot"
)

// Service coordinates the snapshot cache, offline queue, and API client.
type Service struct {
	client *apiclient.Client
	store  *snapshot.Store
	queue  *queue.Queue
	bus    event.Bus

	mu            sync.RWMutex
	state         domain.FullState
	needsSync     bool
	refetchWanted bool
}

// NewService builds a sync service, loading the snapshot cache into
// memory. A missing or corrupt cache starts empty.
func NewService(client *apiclient.Client, store *snapshot.Store, q *queue.Queue, bus event.Bus) (*Service, error) {
	state, err := loadState(store)
	if err != nil {
		return nil, err
	}

	slog.Info(LogMsgStateLoaded,
		"students", len(state.Students),
		"queued_mutations", q.Len())

	return &Service{
		client: client,
		store:  store,
		queue:  q,
		bus:    bus,
		state:  state,
	}, nil
}

// State returns a copy of the current in-memory state.
func (s *Service) State() domain.FullState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// PendingActions returns the offline queue depth.
func (s *Service) PendingActions() int {
	return s.queue.Len()
}

// NeedsSync reports whether recovered local data awaits a manual push.
func (s *Service) NeedsSync() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.needsSync
}

// Dispatch applies m optimistically, persists the affected snapshot key,
// then attempts the network call. The returned Result tells the caller
// whether the server confirmed the mutation, it was deferred to the
// offline queue, or the server rejected it outright.
func (s *Service) Dispatch(ctx context.Context, m domain.Mutation) (Result, error) {
	// Local apply first; it is synchronous and cannot fail for
	// well-formed mutations.
	s.mu.Lock()
	if err := applyMutation(&s.state, m); err != nil {
		s.mu.Unlock()
		return ResultRejected, err
	}
	if m.IsConfig() {
		_ = s.store.Write(snapshot.KeyConfig, s.state.Config)
	} else {
		_ = s.store.Write(snapshotKeys[m.Collection], collectionValue(&s.state, m.Collection))
	}
	s.mu.Unlock()

	result := s.attempt(ctx, m)
	label := string(m.Collection)
	if m.IsConfig() {
		label = "config"
	}
	metrics.MutationsApplied.WithLabelValues(label, string(result)).Inc()
	return result, nil
}

// attempt runs the network leg of a mutation and classifies the outcome.
func (s *Service) attempt(ctx context.Context, m domain.Mutation) Result {
	err := s.networkCall(ctx, m)
	if err == nil {
		// A confirmed send while entries sit queued means connectivity
		// is back; drain now instead of waiting for the next tick. The
		// queue's single-flight guard absorbs overlapping triggers.
		if s.queue.Len() > 0 {
			slog.Info(LogMsgConnectivityRestored, "pending", s.queue.Len())
			go s.Drain(context.WithoutCancel(ctx))
		}
		return ResultApplied
	}

	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode()
		switch {
		case code == http.StatusNotFound && m.Op == domain.OpDelete:
			// Already gone on the server; the intent is satisfied.
			return ResultApplied
		case code == http.StatusConflict:
			// The server holds a conflicting version. Abandon the intent
			// and re-fetch authoritative state on the next drain so local
			// state does not stay diverged indefinitely.
			s.mu.Lock()
			s.refetchWanted = true
			s.mu.Unlock()
			slog.Warn(LogMsgRefetchScheduled, "endpoint", m.Endpoint())
			return ResultRejected
		}
		// Any other status is treated as transient and falls through to
		// the queue, mirroring the replay drop policy.
	}

	s.enqueue(ctx, m)
	return ResultQueued
}

func (s *Service) networkCall(ctx context.Context, m domain.Mutation) error {
	switch {
	case m.IsConfig():
		return s.client.UpsertConfig(ctx, *m.Config)
	case m.Op == domain.OpDelete:
		return s.client.DeleteRecord(ctx, m.Collection, m.ID)
	default:
		return s.client.UpsertRecord(ctx, m.Collection, m.Record)
	}
}

func (s *Service) enqueue(ctx context.Context, m domain.Mutation) {
	if _, err := s.queue.Enqueue(m.Endpoint(), m.HTTPMethod(), m.Payload()); err != nil {
		slog.Error("Failed to enqueue mutation", "endpoint", m.Endpoint(), "error", err)
		return
	}
	s.publish(ctx, event.NewMutationQueuedEvent(m.Endpoint(), m.HTTPMethod()))
	s.publish(ctx, event.NewQueueDepthChangedEvent(s.queue.Len()))
}

// Drain replays the offline queue once. If a dropped conflict flagged a
// re-fetch, authoritative state is re-adopted first.
func (s *Service) Drain(ctx context.Context) queue.DrainResult {
	s.mu.Lock()
	refetch := s.refetchWanted
	s.refetchWanted = false
	s.mu.Unlock()

	if refetch {
		s.refreshFromServer(ctx)
	}

	result := s.queue.Drain(ctx, s.client)
	s.publish(ctx, event.NewDrainCompletedEvent(result.Sent, result.Dropped, result.Retained))
	s.publish(ctx, event.NewQueueDepthChangedEvent(s.queue.Len()))
	return result
}

// ClearQueue empties the offline queue (manual reset).
func (s *Service) ClearQueue(ctx context.Context) {
	s.queue.Clear()
	s.publish(ctx, event.NewQueueDepthChangedEvent(0))
}

// PushAll uploads the entire local state as a bulk snapshot (manual
// migration after recovery). On success the needs-sync flag clears.
func (s *Service) PushAll(ctx context.Context) error {
	state := s.State()
	slog.Info(LogMsgBulkPushStarted, "students", len(state.Students))

	if err := s.client.BulkSync(ctx, state); err != nil {
		return err
	}

	s.mu.Lock()
	s.needsSync = false
	s.mu.Unlock()
	s.publish(ctx, event.NewRecoveryCompletedEvent(nil, false))

	slog.Info(LogMsgBulkPushDone)
	return nil
}

// QueueEntriesJSON exposes the queued entries for diagnostics surfaces.
func (s *Service) QueueEntriesJSON() ([]byte, error) {
	return json.Marshal(s.queue.Entries())
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.Debug("Event handler reported errors", "type", e.Type, "error", err)
	}
}
