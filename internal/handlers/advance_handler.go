package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"payledger-backend/internal/middleware"
	"payledger-backend/internal/models"
	"payledger-backend/internal/services"
)

type AdvanceHandler struct {
	Service *services.AdvanceService
}

func NewAdvanceHandler(service *services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{Service: service}
}

func counterpartyParams(r *http.Request) (int64, models.DocumentKind, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["counterparty_id"], 10, 64)
	if err != nil {
		return 0, "", err
	}
	kind := models.DocumentKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.DocumentKindSale
	}
	return id, kind, nil
}

// Balance returns the counterparty's available credit. ?as_of=2026-01-31
// gives a point-in-time balance.
func (h *AdvanceHandler) Balance(w http.ResponseWriter, r *http.Request) {
	counterpartyID, kind, err := counterpartyParams(r)
	if err != nil {
		http.Error(w, "Invalid counterparty ID", http.StatusBadRequest)
		return
	}

	var asOf *time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		asOf = &t
	}

	balance, err := h.Service.Balance(r.Context(), counterpartyID, kind, asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AdvanceBalance{
		CounterpartyID: counterpartyID,
		Kind:           kind,
		Balance:        balance,
		AsOf:           asOf,
	})
}

// Ledger returns the entry history for a counterparty together with the
// current balance.
func (h *AdvanceHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	counterpartyID, kind, err := counterpartyParams(r)
	if err != nil {
		http.Error(w, "Invalid counterparty ID", http.StatusBadRequest)
		return
	}

	entries, err := h.Service.List(r.Context(), counterpartyID, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	balance, err := h.Service.Balance(r.Context(), counterpartyID, kind, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counterparty_id": counterpartyID,
		"kind":            kind,
		"balance":         balance,
		"entries":         entries,
	})
}

// Grant posts a deposit or return credit.
func (h *AdvanceHandler) Grant(w http.ResponseWriter, r *http.Request) {
	counterpartyID, _, err := counterpartyParams(r)
	if err != nil {
		http.Error(w, "Invalid counterparty ID", http.StatusBadRequest)
		return
	}

	var req models.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.CounterpartyID = counterpartyID

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		req.CreatedBy = &userID
	}

	entry, err := h.Service.Grant(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Apply consumes credit against a document.
func (h *AdvanceHandler) Apply(w http.ResponseWriter, r *http.Request) {
	_, _, err := counterpartyParams(r)
	if err != nil {
		http.Error(w, "Invalid counterparty ID", http.StatusBadRequest)
		return
	}

	var req models.ApplyAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		req.CreatedBy = &userID
	}

	entry, err := h.Service.Apply(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// MaxApplicable reports how much credit a document can still absorb.
func (h *AdvanceHandler) MaxApplicable(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["document_id"]

	max, err := h.Service.MaxApplicable(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":    documentID,
		"max_applicable": max,
	})
}
