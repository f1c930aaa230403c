package handlers

import (
	"encoding/json"
	"net/http"

	"payledger-backend/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps the engine error taxonomy onto HTTP statuses:
// validation 400, limit breaches 422, integrity conflicts 409.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case engine.IsLimitExceeded(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case engine.IsConflict(err):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
