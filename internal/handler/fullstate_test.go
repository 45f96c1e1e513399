package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/store"
)

func TestHandleGetFullState(t *testing.T) {
	ctx := context.Background()

	t.Run("marks empty dataset", func(t *testing.T) {
		s := store.NewMemory()
		rec := httptest.NewRecorder()
		HandleGetFullState(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/full-state", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var state domain.FullState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.True(t, state.IsEmpty)
		assert.False(t, state.IsOptimized)
	})

	t.Run("returns data with avatars below threshold", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.UpsertRecord(ctx, domain.CollectionStudents,
			domain.Student{ID: "s1", Name: "Amina", Avatar: "data:image/png;base64,AAA"}))

		rec := httptest.NewRecorder()
		HandleGetFullState(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/full-state", nil))

		var state domain.FullState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.False(t, state.IsEmpty)
		assert.False(t, state.IsOptimized)
		assert.Equal(t, "data:image/png;base64,AAA", state.Students[0].Avatar)
	})

	t.Run("strips large avatar payloads", func(t *testing.T) {
		s := store.NewMemory()
		bigAvatar := "data:image/png;base64," + strings.Repeat("A", AvatarOptimizeThreshold)
		require.NoError(t, s.UpsertRecord(ctx, domain.CollectionStudents,
			domain.Student{ID: "s1", Name: "Amina", Avatar: bigAvatar}))

		rec := httptest.NewRecorder()
		HandleGetFullState(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/full-state", nil))

		var state domain.FullState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.True(t, state.IsOptimized)
		assert.Equal(t, domain.AvatarPlaceholder, state.Students[0].Avatar)

		// The real image is still served by the avatars endpoint.
		rec = httptest.NewRecorder()
		HandleGetAvatars(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/avatars", nil))
		var avatars map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avatars))
		assert.Equal(t, bigAvatar, avatars["s1"])
	})
}
