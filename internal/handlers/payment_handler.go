package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"payledger-backend/internal/middleware"
	"payledger-backend/internal/models"
	"payledger-backend/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		req.CreatedBy = &userID
	}

	payment, err := h.Service.Record(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) RecordBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []*models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		for _, req := range reqs {
			req.CreatedBy = &userID
		}
	}

	payments, err := h.Service.RecordBatch(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payments)
}

// ListByDocument returns all tender rows for one document.
func (h *PaymentHandler) ListByDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["document_id"]

	payments, err := h.Service.ListByDocument(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}

// UpdateClearingState moves a payment through its clearing lifecycle.
func (h *PaymentHandler) UpdateClearingState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateClearingStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.Service.UpdateClearingState(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}
