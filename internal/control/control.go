// Package control serves the agent's loopback control surface: the
// manual sync actions that have no place on the periodic schedule.
// It exposes sync status, queue inspection and reset, an on-demand
// reconcile, the bulk push used after legacy recovery, and repointing
// the agent at a different server.
package control

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edudesk/edudesk/internal/apiclient"
	"github.com/edudesk/edudesk/internal/syncer"
)

// Server is the agent's control server. The surface carries no
// authentication, so addr must be a loopback address.
type Server struct {
	httpServer *http.Server
}

// New creates a control server on addr.
func New(addr string, svc *syncer.Service, client *apiclient.Client) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           newRouter(svc, client),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func newRouter(svc *syncer.Service, client *apiclient.Client) http.Handler {
	r := chi.NewRouter()

	r.Get(PathStatus, handleStatus(svc, client))
	r.Get(PathQueue, handleQueue(svc))
	r.Post(PathQueueClear, handleQueueClear(svc))
	r.Post(PathSync, handleSync(svc))
	r.Post(PathPush, handlePush(svc))
	r.Put(PathServerURL, handleServerURL(client))

	return r
}

// Start starts the control server
func (s *Server) Start() error {
	slog.Info(LogMsgControlStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the control server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// StatusResponse reports the agent's sync state.
type StatusResponse struct {
	PendingActions int    `json:"pendingActions"`
	NeedsSync      bool   `json:"needsSync"`
	ServerURL      string `json:"serverUrl"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type drainResponse struct {
	Sent     int `json:"sent"`
	Dropped  int `json:"dropped"`
	Retained int `json:"retained"`
}

func handleStatus(svc *syncer.Service, client *apiclient.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			PendingActions: svc.PendingActions(),
			NeedsSync:      svc.NeedsSync(),
			ServerURL:      client.BaseURL(),
		})
	}
}

func handleQueue(svc *syncer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.QueueEntriesJSON()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrMsgQueueFailed})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleQueueClear(svc *syncer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearQueue(r.Context())
		writeJSON(w, http.StatusOK, messageResponse{Message: MsgQueueCleared})
	}
}

func handleSync(svc *syncer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.Reconcile(r.Context())
		writeJSON(w, http.StatusOK, drainResponse{
			Sent:     result.Sent,
			Dropped:  result.Dropped,
			Retained: result.Retained,
		})
	}
}

func handlePush(svc *syncer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.PushAll(r.Context()); err != nil {
			slog.Error("Bulk push failed", "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: ErrMsgPushFailed})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: MsgPushComplete})
	}
}

func handleServerURL(client *apiclient.Client) http.HandlerFunc {
	type request struct {
		URL string `json:"url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMsgInvalidRequest})
			return
		}
		u, err := url.Parse(req.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMsgInvalidURL})
			return
		}
		client.SetBaseURL(req.URL)
		writeJSON(w, http.StatusOK, messageResponse{Message: MsgServerURLSet})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode control response", "error", err)
	}
}
