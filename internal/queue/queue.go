// Package queue implements the durable offline action queue: an ordered
// log of mutating HTTP requests that failed to reach the server, replayed
// FIFO on each drain pass.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edudesk/edudesk/internal/metrics"
	"github.com/edudesk/edudesk/internal/snapshot"
)

// Entry is one deferred mutating request awaiting replay. Entries are
// immutable once enqueued; a retained entry is carried to the next drain
// with endpoint, method, and body unchanged.
type Entry struct {
	ID        string          `json:"id"`
	Endpoint  string          `json:"endpoint"` // relative, no scheme/host/api prefix
	Method    string          `json:"method"`   // POST, PUT or DELETE
	Body      json.RawMessage `json:"body,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Sender replays one entry against the server using the base URL current
// at drain time. Implementations return an error carrying the HTTP
// status (via StatusCode) for non-2xx responses.
type Sender interface {
	Send(ctx context.Context, method, endpoint string, body json.RawMessage) error
}

// StatusCoder is implemented by errors that carry an HTTP status code.
// Drain uses it to distinguish drop-worthy responses (404 on DELETE, 409)
// from transient failures.
type StatusCoder interface {
	StatusCode() int
}

// DrainResult summarizes one drain pass.
type DrainResult struct {
	Sent     int
	Dropped  int
	Retained int
}

// Queue is the persisted FIFO of deferred mutations. All methods are
// safe for concurrent use; Drain additionally holds a single-flight lock
// so overlapping triggers cannot replay the same entry twice.
type Queue struct {
	store *snapshot.Store

	mu      sync.Mutex
	entries []Entry

	drainMu sync.Mutex
}

// New creates a queue backed by the given snapshot store, loading any
// previously persisted entries. A corrupt persisted queue reads as empty.
func New(store *snapshot.Store) (*Queue, error) {
	q := &Queue{store: store}
	if _, err := store.Read(snapshot.KeyQueue, &q.entries); err != nil {
		return nil, fmt.Errorf("failed to load offline queue: %w", err)
	}
	return q, nil
}

// Enqueue appends a deferred request. The endpoint is normalized to a
// relative path at enqueue time so entries created before a base-URL
// change stay resolvable. When the queue is at capacity the oldest entry
// is evicted first.
func (q *Queue) Enqueue(endpoint, method string, body any) (Entry, error) {
	var raw json.RawMessage
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to encode queue entry body: %w", err)
		}
		raw = data
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Endpoint:  NormalizeEndpoint(endpoint),
		Method:    method,
		Body:      raw,
		Timestamp: time.Now(),
	}

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	if len(q.entries) > MaxEntries {
		evicted := q.entries[0]
		q.entries = q.entries[1:]
		metrics.QueueEvictions.Inc()
		slog.Warn(LogMsgEvictedOldest, "evicted_endpoint", evicted.Endpoint, "evicted_method", evicted.Method)
	}
	q.persistLocked()
	q.mu.Unlock()

	slog.Debug(LogMsgEnqueued, "endpoint", entry.Endpoint, "method", entry.Method)
	return entry, nil
}

// Len returns the current number of queued entries, used to drive the
// pending-actions indicator.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Entries returns a copy of the current entries in FIFO order.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Clear unconditionally empties the persisted queue (manual reset).
func (q *Queue) Clear() {
	q.mu.Lock()
	q.entries = nil
	q.persistLocked()
	q.mu.Unlock()
	slog.Info(LogMsgQueueCleared)
}

// Drain replays all currently queued entries in FIFO order. Per-entry
// outcomes are independent: success removes the entry, a 404 on DELETE
// or any 409 drops it as no-longer-applicable, and every other failure
// retains it unchanged for the next pass. The surviving subset replaces
// the persisted queue. Concurrent calls are serialized.
func (q *Queue) Drain(ctx context.Context, sender Sender) DrainResult {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	pending := q.Entries()
	if len(pending) == 0 {
		return DrainResult{}
	}

	slog.Info(LogMsgDrainStarted, "entries", len(pending))

	var result DrainResult
	var retained []Entry
	for _, entry := range pending {
		err := sender.Send(ctx, entry.Method, entry.Endpoint, entry.Body)
		switch classifyReplay(entry.Method, err) {
		case replaySent:
			result.Sent++
			slog.Debug(LogMsgEntrySent, "endpoint", entry.Endpoint, "method", entry.Method)
		case replayDropped:
			result.Dropped++
			slog.Info(LogMsgEntryDropped, "endpoint", entry.Endpoint, "method", entry.Method, "error", err)
		case replayRetained:
			result.Retained++
			retained = append(retained, entry)
			slog.Debug(LogMsgEntryRetained, "endpoint", entry.Endpoint, "method", entry.Method, "error", err)
		}
	}

	processed := make(map[string]struct{}, len(pending))
	for _, entry := range pending {
		processed[entry.ID] = struct{}{}
	}

	q.mu.Lock()
	// Rebuild by entry ID, not offset: entries enqueued during the pass
	// were not in our snapshot and must survive alongside the retained
	// subset, and an entry evicted mid-drain stays evicted even when its
	// replay would have retained it.
	current := make(map[string]struct{}, len(q.entries))
	for _, entry := range q.entries {
		current[entry.ID] = struct{}{}
	}
	rebuilt := make([]Entry, 0, len(q.entries))
	for _, entry := range retained {
		if _, ok := current[entry.ID]; ok {
			rebuilt = append(rebuilt, entry)
		}
	}
	for _, entry := range q.entries {
		if _, ok := processed[entry.ID]; !ok {
			rebuilt = append(rebuilt, entry)
		}
	}
	q.entries = rebuilt
	q.persistLocked()
	q.mu.Unlock()

	slog.Info(LogMsgDrainFinished, "sent", result.Sent, "dropped", result.Dropped, "retained", result.Retained)
	return result
}

type replayOutcome int

const (
	replaySent replayOutcome = iota
	replayDropped
	replayRetained
)

// classifyReplay applies the drop policy: 404 on a DELETE means the
// record is already gone, 409 means the intent conflicts and is
// abandoned; both count as terminal. Everything else is transient.
func classifyReplay(method string, err error) replayOutcome {
	if err == nil {
		return replaySent
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if code == http.StatusNotFound && method == http.MethodDelete {
			return replayDropped
		}
		if code == http.StatusConflict {
			return replayDropped
		}
	}
	return replayRetained
}

// NormalizeEndpoint reduces any absolute or prefixed URL to the relative
// form used for replay: no scheme, no host, no leading /api segment.
func NormalizeEndpoint(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		if u, err := url.Parse(endpoint); err == nil {
			endpoint = u.Path
			if u.RawQuery != "" {
				endpoint += "?" + u.RawQuery
			}
		}
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if endpoint == APIPrefix {
		return "/"
	}
	if strings.HasPrefix(endpoint, APIPrefix+"/") {
		endpoint = strings.TrimPrefix(endpoint, APIPrefix)
	}
	return endpoint
}

func (q *Queue) persistLocked() {
	if err := q.store.Write(snapshot.KeyQueue, q.entries); err != nil {
		slog.Warn(LogMsgQueuePersistError, "error", err)
	}
}
