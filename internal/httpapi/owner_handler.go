package httpapi

import (
	"net/http"
	"strings"

	"sensorhub/internal/domain"
	"sensorhub/internal/repository"
	"sensorhub/internal/service"

	"go.uber.org/zap"
)

// OwnerHandler serves the owner CRUD surface plus the batch fullname
// endpoint and the sensors-by-owner listing.
type OwnerHandler struct {
	owners  *service.OwnerService
	sensors *service.SensorService
	logger  *zap.Logger
}

func NewOwnerHandler(owners *service.OwnerService, sensors *service.SensorService, logger *zap.Logger) *OwnerHandler {
	return &OwnerHandler{owners: owners, sensors: sensors, logger: logger}
}

func (h *OwnerHandler) Register(r *Router) {
	r.Handle("/api/v1/owners", h.collection)
	r.Handle("/api/v1/owners/", h.item)
}

func (h *OwnerHandler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		owners, err := h.owners.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusOK, owners)
	case http.MethodPost:
		var body struct {
			FirstName    string `json:"first_name"`
			LastName     string `json:"last_name"`
			EmailAddress string `json:"email_address"`
			DOB          string `json:"dob"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		owner, err := h.owners.Create(r.Context(), &domain.Owner{
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			EmailAddress: body.EmailAddress,
			DOB:          body.DOB,
		})
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusCreated, owner)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *OwnerHandler) item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/owners/")

	// POST /api/v1/owners/fullnames — batch derived-string resolution.
	if rest == "fullnames" {
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
		names, err := h.owners.FullnamesBatch(r.Context(), body.IDs)
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusOK, names)
		return
	}

	// GET /api/v1/owners/{id}/sensors
	if id, ok := strings.CutSuffix(rest, "/sensors"); ok && !strings.Contains(id, "/") {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		sensors, err := h.sensors.ListByOwner(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusOK, sensors)
		return
	}

	id := rest
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		owner, err := h.owners.Get(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusOK, owner)
	case http.MethodPut:
		var body struct {
			FirstName    *string `json:"first_name"`
			LastName     *string `json:"last_name"`
			EmailAddress *string `json:"email_address"`
			DOB          *string `json:"dob"`
		}
		if err := readBodyJSON(r, &body); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
		owner, err := h.owners.Update(r.Context(), id, repository.OwnerUpdate{
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			EmailAddress: body.EmailAddress,
			DOB:          body.DOB,
		})
		if err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		writeJSON(w, http.StatusOK, owner)
	case http.MethodDelete:
		if err := h.owners.Delete(r.Context(), id); err != nil {
			writeError(w, h.logger, err, "owner not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}
