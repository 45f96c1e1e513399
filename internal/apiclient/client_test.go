package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/domain"
)

func TestFullState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/full-state", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(HeaderAPIKey))

		state := domain.FullState{
			Students:    []domain.Student{{ID: "s1", Name: "Amina Diallo"}},
			IsOptimized: true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(state)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret")
	state, err := client.FullState(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsOptimized)
	require.Len(t, state.Students, 1)
	assert.Equal(t, "s1", state.Students[0].ID)
}

func TestStatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret")
	err := client.DeleteRecord(context.Background(), domain.CollectionStudents, "missing")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode())
}

func TestTransportFailureIsServerOffline(t *testing.T) {
	// Point at a closed server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "secret")
	_, err := client.FullState(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestSendReplaysRawBody(t *testing.T) {
	var gotBody string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret")
	err := client.Send(context.Background(), http.MethodPost, "/students", json.RawMessage(`{"id":"s1"}`))
	require.NoError(t, err)
	assert.Equal(t, "/api/students", gotPath)
	assert.JSONEq(t, `{"id":"s1"}`, gotBody)
}

func TestSetBaseURLRedirectsRequests(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the old server")
	}))
	defer first.Close()

	hit := false
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	}))
	defer second.Close()

	client := New(first.URL, "secret")
	client.SetBaseURL(second.URL)

	err := client.Send(context.Background(), http.MethodDelete, "/books/b1", nil)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestUpsertRecordPostsToCollection(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret")
	err := client.UpsertRecord(context.Background(), domain.CollectionBehavior, domain.BehaviorLog{ID: "bl1", StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/behavior", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}
