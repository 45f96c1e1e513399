package handler

import (
	"embed"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/store"
	"github.com/edudesk/edudesk/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaFullState = "fullstate"

var (
	syncValidator     validation.SchemaValidator
	syncValidatorOnce sync.Once
)

// getSyncValidator compiles the embedded payload schemas on first use.
// The schemas ship with the binary, so a compile failure is a build
// defect and panics rather than being silently skipped.
func getSyncValidator() validation.SchemaValidator {
	syncValidatorOnce.Do(func() {
		src, err := schemaFS.ReadFile("schemas/fullstate.json")
		if err != nil {
			panic(err)
		}
		v, err := validation.NewSchemaValidator(map[string][]byte{
			schemaFullState: src,
		})
		if err != nil {
			panic(err)
		}
		syncValidator = v
	})
	return syncValidator
}

// HandleBulkSync replaces the entire server dataset with an uploaded
// snapshot. Used for manual migration of locally recovered data. The
// payload is schema-checked up front: a malformed snapshot must not get
// partway into a full dataset replacement.
// @Summary Bulk import a snapshot
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/sync [post]
func HandleBulkSync(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := getSyncValidator().ValidateBytes(body, schemaFullState); err != nil {
			slog.Warn("Rejected snapshot import", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		var state domain.FullState
		if err := json.Unmarshal(body, &state); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := s.ReplaceAll(r.Context(), state); err != nil {
			slog.Error("Failed to import snapshot", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgBulkSyncFailed)
			return
		}

		slog.Info("Snapshot imported",
			"students", len(state.Students),
			"books", len(state.Books))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSyncComplete})
	}
}
