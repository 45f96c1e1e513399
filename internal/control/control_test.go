package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/apiclient"
	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/event"
	"github.com/edudesk/edudesk/internal/queue"
	"github.com/edudesk/edudesk/internal/snapshot"
	"github.com/edudesk/edudesk/internal/syncer"
)

func newTestControl(t *testing.T, backend http.Handler) (*httptest.Server, *syncer.Service, *apiclient.Client) {
	t.Helper()

	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	store, err := snapshot.NewStore(t.TempDir())
	require.NoError(t, err)
	q, err := queue.New(store)
	require.NoError(t, err)

	client := apiclient.New(api.URL, "test-key")
	svc, err := syncer.NewService(client, store, q, event.NewMemoryBus())
	require.NoError(t, err)

	ctrl := httptest.NewServer(newRouter(svc, client))
	t.Cleanup(ctrl.Close)
	return ctrl, svc, client
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestStatus(t *testing.T) {
	ctrl, _, client := newTestControl(t, http.NotFoundHandler())

	var status StatusResponse
	resp := getJSON(t, ctrl.URL+PathStatus, &status)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, status.PendingActions)
	assert.False(t, status.NeedsSync)
	assert.Equal(t, client.BaseURL(), status.ServerURL)
}

func TestQueueInspectAndClear(t *testing.T) {
	ctx := context.Background()

	// The backend refuses writes so the dispatch lands in the queue.
	ctrl, svc, _ := newTestControl(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	result, err := svc.Dispatch(ctx, domain.NewSaveStudent(domain.Student{ID: "s1", Name: "Amina"}))
	require.NoError(t, err)
	require.Equal(t, syncer.ResultQueued, result)

	var entries []queue.Entry
	resp := getJSON(t, ctrl.URL+PathQueue, &entries)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, entries, 1)
	assert.Equal(t, "/students", entries[0].Endpoint)

	resp = postJSON(t, ctrl.URL+PathQueueClear, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, svc.PendingActions())
}

func TestSyncReconciles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/full-state", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.FullState{
			Students: []domain.Student{{ID: "s1", Name: "Amina"}},
		})
	})

	ctrl, svc, _ := newTestControl(t, mux)

	var drained drainResponse
	resp := postJSON(t, ctrl.URL+PathSync, &drained)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, drained.Retained)
	require.Len(t, svc.State().Students, 1)
	assert.Equal(t, "Amina", svc.State().Students[0].Name)
}

func TestPush(t *testing.T) {
	var got domain.FullState
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sync", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	ctrl, svc, _ := newTestControl(t, mux)
	_, err := svc.Dispatch(context.Background(), domain.NewSaveBook(domain.Book{ID: "b1", Title: "Atlas"}))
	require.NoError(t, err)

	resp := postJSON(t, ctrl.URL+PathPush, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Atlas", got.Books[0].Title)
}

func TestPushFailure(t *testing.T) {
	ctrl, _, _ := newTestControl(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	resp := postJSON(t, ctrl.URL+PathPush, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServerURL(t *testing.T) {
	ctrl, _, client := newTestControl(t, http.NotFoundHandler())

	put := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, ctrl.URL+PathServerURL, strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := put(`{"url":"http://other-server:9090"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://other-server:9090", client.BaseURL())

	t.Run("relative url rejected", func(t *testing.T) {
		resp := put(`{"url":"/just/a/path"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "http://other-server:9090", client.BaseURL())
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		resp := put(`{"url":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
