package handlers

import (
	"encoding/json"
	"net/http"

	"payledger-backend/internal/middleware"
	"payledger-backend/internal/services"
)

type AllocationHandler struct {
	Service *services.AllocationService
}

func NewAllocationHandler(service *services.AllocationService) *AllocationHandler {
	return &AllocationHandler{Service: service}
}

// Preview plans an allocation without writing anything.
func (h *AllocationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req services.AllocationPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.Preview(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Commit records one payment per allocated row.
func (h *AllocationHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req services.AllocationCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		req.CreatedBy = &userID
	}

	result, err := h.Service.Commit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
