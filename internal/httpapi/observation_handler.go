package httpapi

import (
	"net/http"
	"strings"
	"time"

	"sensorhub/internal/service"

	"go.uber.org/zap"
)

// ObservationHandler serves observation ingestion and reads. POST runs the
// full ingestion pipeline: durable insert, aggregate fold, threshold rule.
type ObservationHandler struct {
	observations *service.ObservationService
	logger       *zap.Logger
}

func NewObservationHandler(observations *service.ObservationService, logger *zap.Logger) *ObservationHandler {
	return &ObservationHandler{observations: observations, logger: logger}
}

func (h *ObservationHandler) Register(r *Router) {
	r.Handle("/api/v1/observations", h.collection)
	r.Handle("/api/v1/observations/", h.item)
}

func (h *ObservationHandler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		observations, err := h.observations.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err, "observation not found")
			return
		}
		writeJSON(w, http.StatusOK, observations)
	case http.MethodPost:
		var body struct {
			SensorID  string  `json:"sensor_id"`
			Value     float64 `json:"value"`
			Timestamp int64   `json:"timestamp"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		if body.SensorID == "" {
			writeBadRequest(w, "sensor_id is required")
			return
		}
		if body.Timestamp == 0 {
			body.Timestamp = time.Now().UnixMilli()
		}
		observation, err := h.observations.Record(r.Context(), body.SensorID, body.Value, body.Timestamp)
		if err != nil {
			writeError(w, h.logger, err, "observation not found")
			return
		}
		writeJSON(w, http.StatusCreated, observation)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *ObservationHandler) item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/observations/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		observation, err := h.observations.Get(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "observation not found")
			return
		}
		writeJSON(w, http.StatusOK, observation)
	case http.MethodDelete:
		if err := h.observations.Delete(r.Context(), id); err != nil {
			writeError(w, h.logger, err, "observation not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}
