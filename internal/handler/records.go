package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edudesk/edudesk/internal/domain"
	"github.com/edudesk/edudesk/internal/naming"
	"github.com/edudesk/edudesk/internal/store"
)

// HandleUpsertRecord upserts one record into the given collection.
// Student names are normalized before storage.
// @Summary Upsert a record
// @Tags records
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/{collection} [post]
func HandleUpsertRecord(s store.Store, collection domain.Collection, names naming.Normalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		rec, err := domain.DecodeRecord(collection, body)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		if student, ok := rec.(domain.Student); ok {
			student.Name = names.DisplayName(student.Name)
			student.GuardianName = names.DisplayName(student.GuardianName)
			rec = student
		}

		if err := GetValidator().ValidateStruct(rec); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":  ErrMsgInvalidRequest,
				"fields": FormatValidationError(err),
			})
			return
		}

		if err := s.UpsertRecord(r.Context(), collection, rec); err != nil {
			slog.Error("Failed to upsert record",
				"collection", collection, "id", rec.RecordID(), "error", err)
			respondDomainError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRecordSaved})
	}
}

// HandleDeleteRecord removes one record from the given collection by id.
// @Summary Delete a record
// @Tags records
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/{collection}/{id} [delete]
func HandleDeleteRecord(s store.Store, collection domain.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			respondError(w, http.StatusBadRequest, ErrMsgMissingID)
			return
		}

		if err := s.DeleteRecord(r.Context(), collection, id); err != nil {
			if status, msg := mapDomainError(err); status != http.StatusInternalServerError {
				respondError(w, status, msg)
				return
			}
			slog.Error("Failed to delete record",
				"collection", collection, "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgDeleteFailed)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRecordDeleted})
	}
}
