package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"voyage-planner-service/internal/api/dto"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/services"

	"github.com/rs/zerolog"
)

type FeedbackHandler struct {
	Repo ports.VoyageRepository
	Now  func() time.Time
}

const missingFeedbackFields = "Missing required fields: voyageId, actualFuelUsed, actualTimeTaken."

// Submit records the actual outcome of a voyage.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	voyageID := strings.TrimSpace(req.VoyageID)
	if voyageID == "" || req.ActualFuelUsed == nil || *req.ActualFuelUsed == 0 || req.ActualTimeTaken == nil {
		writeError(w, r, http.StatusBadRequest, missingFeedbackFields)
		return
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}

	v, err := services.SubmitFeedback(r.Context(), services.FeedbackRequest{
		VoyageID:        voyageID,
		ActualFuelKg:    *req.ActualFuelUsed,
		ActualArrivalAt: *req.ActualTimeTaken,
		Notes:           req.Notes,
	}, h.Repo, now)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFeedback):
			writeError(w, r, http.StatusBadRequest, "actualFuelUsed must be positive and actualTimeTaken must be after departure")
		case errors.Is(err, ports.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "voyage not found")
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("submit feedback failed")
			writeError(w, r, http.StatusInternalServerError, "Failed to submit feedback.")
		}
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("voyage_id", v.ID).Msg("fuel log created from feedback")
	writeJSON(w, r, http.StatusOK, voyageResponse(v))
}
