package httpapi

import (
	"net/http"
	"strings"

	"sensorhub/internal/domain"
	"sensorhub/internal/repository"
	"sensorhub/internal/service"

	"go.uber.org/zap"
)

// SensorHandler serves the sensor CRUD surface, the assembled details
// view, per-sensor observations/alarms and the inventory export.
type SensorHandler struct {
	sensors      *service.SensorService
	observations *service.ObservationService
	alarms       *service.AlarmService
	export       *SensorExporter
	logger       *zap.Logger
}

func NewSensorHandler(
	sensors *service.SensorService,
	observations *service.ObservationService,
	alarms *service.AlarmService,
	export *SensorExporter,
	logger *zap.Logger,
) *SensorHandler {
	return &SensorHandler{
		sensors:      sensors,
		observations: observations,
		alarms:       alarms,
		export:       export,
		logger:       logger,
	}
}

func (h *SensorHandler) Register(r *Router) {
	r.Handle("/api/v1/sensors", h.collection)
	r.Handle("/api/v1/sensors/", h.item)
}

func (h *SensorHandler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sensors, err := h.sensors.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, sensors)
	case http.MethodPost:
		var body struct {
			Name       string  `json:"name"`
			SensorType string  `json:"sensor_type"`
			Unit       string  `json:"unit"`
			Threshold  float64 `json:"threshold"`
			OwnerID    string  `json:"owner_id"`
			LocationID string  `json:"location_id"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		sensor, err := h.sensors.Create(r.Context(), &domain.Sensor{
			Name:       body.Name,
			SensorType: body.SensorType,
			Unit:       body.Unit,
			Threshold:  body.Threshold,
			OwnerID:    body.OwnerID,
			LocationID: body.LocationID,
		})
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusCreated, sensor)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *SensorHandler) item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sensors/")

	if rest == "export" {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		h.export.ServeExport(w, r)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/details"); ok && !strings.Contains(id, "/") {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		details, err := h.sensors.GetDetails(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, details)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/observations"); ok && !strings.Contains(id, "/") {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		observations, err := h.observations.ListBySensor(r.Context(), id, parseIntQuery(r, "limit", 0))
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, observations)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/alarms"); ok && !strings.Contains(id, "/") {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		alarms, err := h.alarms.ListBySensor(r.Context(), id, parseIntQuery(r, "limit", 0))
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, alarms)
		return
	}

	id := rest
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sensor, err := h.sensors.Get(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, sensor)
	case http.MethodPut:
		var body struct {
			Name       *string  `json:"name"`
			SensorType *string  `json:"sensor_type"`
			Unit       *string  `json:"unit"`
			Threshold  *float64 `json:"threshold"`
			OwnerID    *string  `json:"owner_id"`
			LocationID *string  `json:"location_id"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		sensor, err := h.sensors.Update(r.Context(), id, repository.SensorUpdate{
			Name:       body.Name,
			SensorType: body.SensorType,
			Unit:       body.Unit,
			Threshold:  body.Threshold,
			OwnerID:    body.OwnerID,
			LocationID: body.LocationID,
		})
		if err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		writeJSON(w, http.StatusOK, sensor)
	case http.MethodDelete:
		if err := h.sensors.Delete(r.Context(), id); err != nil {
			writeError(w, h.logger, err, "sensor not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}
