package httpapi

import (
	"net/http"
	"strings"

	"sensorhub/internal/domain"
	"sensorhub/internal/repository"
	"sensorhub/internal/service"

	"go.uber.org/zap"
)

// LocationHandler serves the location CRUD surface plus the batch
// display-string endpoint.
type LocationHandler struct {
	locations *service.LocationService
	logger    *zap.Logger
}

func NewLocationHandler(locations *service.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{locations: locations, logger: logger}
}

func (h *LocationHandler) Register(r *Router) {
	r.Handle("/api/v1/locations", h.collection)
	r.Handle("/api/v1/locations/", h.item)
}

func (h *LocationHandler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		locations, err := h.locations.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		writeJSON(w, http.StatusOK, locations)
	case http.MethodPost:
		var body struct {
			Longitude float64 `json:"longitude"`
			Latitude  float64 `json:"latitude"`
			Country   string  `json:"country"`
			City      string  `json:"city"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		location, err := h.locations.Create(r.Context(), &domain.Location{
			Longitude: body.Longitude,
			Latitude:  body.Latitude,
			Country:   body.Country,
			City:      body.City,
		})
		if err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		writeJSON(w, http.StatusCreated, location)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *LocationHandler) item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/locations/")

	// POST /api/v1/locations/strings — batch derived-string resolution.
	if rest == "strings" {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var body struct {
			IDs []string `json:"ids"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		resolved, err := h.locations.DisplayStringsBatch(r.Context(), body.IDs)
		if err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		writeJSON(w, http.StatusOK, resolved)
		return
	}

	id := rest
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		location, err := h.locations.Get(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		writeJSON(w, http.StatusOK, location)
	case http.MethodPut:
		var body struct {
			Longitude *float64 `json:"longitude"`
			Latitude  *float64 `json:"latitude"`
			Country   *string  `json:"country"`
			City      *string  `json:"city"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		location, err := h.locations.Update(r.Context(), id, repository.LocationUpdate{
			Longitude: body.Longitude,
			Latitude:  body.Latitude,
			Country:   body.Country,
			City:      body.City,
		})
		if err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		writeJSON(w, http.StatusOK, location)
	case http.MethodDelete:
		if err := h.locations.Delete(r.Context(), id); err != nil {
			writeError(w, h.logger, err, "location not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}
