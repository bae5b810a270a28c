package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/repository"
	"github.com/alexivanou/placenotes-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ListNotes handles GET /api/place-notes. With lat and lng it lists the notes
// within radius meters of the point, closest first.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")

	var (
		notes []model.PlaceNote
		err   error
	)
	if latStr == "" && lngStr == "" {
		notes, err = h.service.ListNotes(r.Context())
	} else {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			h.writeNoteError(w, http.StatusBadRequest, "invalid lat/lng parameters")
			return
		}
		radius := float64(model.DefaultNotifyDistance)
		if radiusStr := q.Get("radius"); radiusStr != "" {
			radius, err = strconv.ParseFloat(radiusStr, 64)
			if err != nil {
				h.writeNoteError(w, http.StatusBadRequest, "invalid radius parameter")
				return
			}
		}
		notes, err = h.service.ListNotesNear(r.Context(), lat, lng, radius)
	}
	if err != nil {
		h.handleNoteError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NoteEnvelope{Data: notes, Status: model.EnvelopeSuccess})
}

// GetNote handles GET /api/place-notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.GetNote(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleNoteError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, model.NoteEnvelope{Data: note, Status: model.EnvelopeSuccess})
}

// CreateNote handles POST /api/place-notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var in model.CreatePlaceNoteInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeNoteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.CreateNote(r.Context(), in)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, model.NoteEnvelope{Data: note, Status: model.EnvelopeSuccess})
}

// UpdateNote handles PUT /api/place-notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var in model.UpdatePlaceNoteInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeNoteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.UpdateNote(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, model.NoteEnvelope{Data: note, Status: model.EnvelopeSuccess})
}

// DeleteNote handles DELETE /api/place-notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteNote(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleNoteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.writeNoteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		h.writeNoteError(w, http.StatusNotFound, "place note not found")
	default:
		h.logger.Error("Place note request failed", zap.Error(err))
		h.writeNoteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeNoteError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, model.NoteEnvelope{Status: model.EnvelopeError, Error: msg})
}
