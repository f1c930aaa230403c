package handlers

import (
	"net/http"

	"payledger-backend/internal/health"
)

type HealthHandler struct {
	Checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	report := h.Checker.Check(r.Context())

	code := http.StatusOK
	if !report.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}
