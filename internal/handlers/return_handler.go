package handlers

import (
	"encoding/json"
	"net/http"

	"payledger-backend/internal/middleware"
	"payledger-backend/internal/models"
	"payledger-backend/internal/services"
)

type ReturnHandler struct {
	Service *services.ReturnService
}

func NewReturnHandler(service *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{Service: service}
}

// Settle applies a return against a document.
func (h *ReturnHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		req.CreatedBy = &userID
	}

	result, err := h.Service.Settle(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
