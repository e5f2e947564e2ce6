package httpapi

import (
	"net/http"
	"strings"

	"sensorhub/internal/service"

	"go.uber.org/zap"
)

// AlarmHandler serves alarm reads and deletes. There is no create route:
// alarms only come from the threshold rule.
type AlarmHandler struct {
	alarms *service.AlarmService
	logger *zap.Logger
}

func NewAlarmHandler(alarms *service.AlarmService, logger *zap.Logger) *AlarmHandler {
	return &AlarmHandler{alarms: alarms, logger: logger}
}

func (h *AlarmHandler) Register(r *Router) {
	r.Handle("/api/v1/alarms", h.collection)
	r.Handle("/api/v1/alarms/", h.item)
}

func (h *AlarmHandler) collection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	alarms, err := h.alarms.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "alarm not found")
		return
	}
	writeJSON(w, http.StatusOK, alarms)
}

func (h *AlarmHandler) item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/alarms/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		alarm, err := h.alarms.Get(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "alarm not found")
			return
		}
		writeJSON(w, http.StatusOK, alarm)
	case http.MethodDelete:
		if err := h.alarms.Delete(r.Context(), id); err != nil {
			writeError(w, h.logger, err, "alarm not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}
