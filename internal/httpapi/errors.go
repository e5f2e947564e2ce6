package httpapi

import (
	"errors"
	"net/http"

	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeError translates the repository error taxonomy into status codes:
// not-found 404, foreign-key violation 400, uniqueness violation 409,
// anything else 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundMsg})
		return
	}
	var ce *repository.ConstraintError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case repository.ConstraintForeignKey:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "referenced entity does not exist"})
		case repository.ConstraintUnique:
			writeJSON(w, http.StatusConflict, errorBody{Error: "duplicate value for unique field"})
		}
		return
	}
	logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}
