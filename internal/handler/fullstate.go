package handler

import (
	"log/slog"
	"net/http"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/store"
)

// HandleGetFullState returns every collection plus config in one
// response. Large combined avatar payloads are stripped and the
// response marked optimized; an entirely empty dataset is flagged so
// clients never adopt it over local data.
// @Summary Fetch full state
// @Tags sync
// @Produce json
// @Success 200 {object} domain.FullState
// @Router /api/full-state [get]
func HandleGetFullState(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.FullState(r.Context())
		if err != nil {
			slog.Error("Failed to load full state", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgFullStateFailed)
			return
		}

		if state.Empty() {
			state.IsEmpty = true
			respondJSON(w, http.StatusOK, state)
			return
		}

		if avatarPayloadSize(&state) > AvatarOptimizeThreshold {
			stripped := state.StripAvatars()
			slog.Debug("Stripped avatars from full-state response", "count", stripped)
		}

		respondJSON(w, http.StatusOK, state)
	}
}

// avatarPayloadSize sums stored avatar bytes across students.
func avatarPayloadSize(state *domain.FullState) int {
	total := 0
	for _, s := range state.Students {
		if !domain.IsPlaceholderAvatar(s.Avatar) {
			total += len(s.Avatar)
		}
	}
	return total
}
