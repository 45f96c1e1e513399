package handler

import (
	"log/slog"
	"net/http"

	"github.com/edudesk/edudesk/internal/store"
)

// HandleGetAvatars returns real (non-placeholder) student avatars keyed
// by student id. Clients call this after an optimized full-state
// response to fill in the stripped images.
// @Summary Fetch student avatars
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/students/avatars [get]
func HandleGetAvatars(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		avatars, err := s.StudentAvatars(r.Context())
		if err != nil {
			slog.Error("Failed to load avatars", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgAvatarsFailed)
			return
		}

		respondJSON(w, http.StatusOK, avatars)
	}
}
