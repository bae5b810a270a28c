package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/service"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// SearchText handles GET /search
func (h *Handler) SearchText(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	limit := service.DefaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, model.SearchResponse{
				Results: []model.SearchResult{},
				Status:  model.StatusInvalidRequest,
				Error:   "invalid limit parameter",
			})
			return
		}
	}

	resp := h.service.SearchText(r.Context(), query, limit)
	h.writeJSON(w, httpStatus(resp.Status), resp)
}

// SearchByLocation handles GET /search/reverse
func (h *Handler) SearchByLocation(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr == "" || lngStr == "" {
		h.writeJSON(w, http.StatusBadRequest, model.ReverseGeocodeResponse{
			Status: model.StatusInvalidRequest,
			Error:  "parameters 'lat' and 'lng' are required",
		})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, model.ReverseGeocodeResponse{
			Status: model.StatusInvalidRequest,
			Error:  "invalid lat parameter",
		})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, model.ReverseGeocodeResponse{
			Status: model.StatusInvalidRequest,
			Error:  "invalid lng parameter",
		})
		return
	}

	resp := h.service.SearchByLocation(r.Context(), lat, lng)
	h.writeJSON(w, httpStatus(resp.Status), resp)
}

// GetPhotos handles POST /search/photos
func (h *Handler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	var req model.PhotoDetailsRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, model.PhotoDetailsResponse{
			Photos: []model.PhotoDetail{},
			Status: model.StatusInvalidRequest,
			Error:  "invalid request body",
		})
		return
	}

	resp := h.service.GetPhotos(r.Context(), req.Photos, req.MaxHeightPx)
	h.writeJSON(w, httpStatus(resp.Status), resp)
}

// ClearCaches handles DELETE /search/cache
func (h *Handler) ClearCaches(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCaches()
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	provider, upstream := h.service.ProviderStatus(r.Context())
	h.writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:   "ok",
		Provider: provider,
		Upstream: upstream,
	})
}

func httpStatus(status model.Status) int {
	switch status {
	case model.StatusOK, model.StatusZeroResults:
		return http.StatusOK
	case model.StatusInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}
