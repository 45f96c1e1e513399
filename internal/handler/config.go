package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/store"
)

// HandleUpsertConfig replaces the singleton school configuration.
// @Summary Upsert school config
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/config [post]
func HandleUpsertConfig(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.SchoolConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := s.SetConfig(r.Context(), cfg); err != nil {
			slog.Error("Failed to save config", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgConfigFailed)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgConfigSaved})
	}
}
