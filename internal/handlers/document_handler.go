package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/services"
)

type DocumentHandler struct {
	Service    *services.DocumentService
	Allocation *services.AllocationService
}

func NewDocumentHandler(service *services.DocumentService, allocation *services.AllocationService) *DocumentHandler {
	return &DocumentHandler{Service: service, Allocation: allocation}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Create(r.Context(), &doc); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Snapshot returns the document position with remaining due and status.
func (h *DocumentHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.Service.Snapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ListOpen returns unsettled documents for ?kind=&counterparty_id=.
func (h *DocumentHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	kind := models.DocumentKind(r.URL.Query().Get("kind"))
	if kind != models.DocumentKindSale && kind != models.DocumentKindPurchase {
		http.Error(w, "kind must be sale or purchase", http.StatusBadRequest)
		return
	}
	counterpartyID, err := strconv.ParseInt(r.URL.Query().Get("counterparty_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid counterparty ID", http.StatusBadRequest)
		return
	}

	docs, err := h.Service.ListOpen(r.Context(), kind, counterpartyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

type envelopeRequest struct {
	Strategy string          `json:"strategy"`
	Amount   decimal.Decimal `json:"amount"`
}

// Preview plans installments for one document without writing anything.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req envelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Allocation.Envelope(r.Context(), id, req.Strategy, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Suggestions returns quick-pick payment amounts for one document.
func (h *DocumentHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	suggestions, err := h.Allocation.Suggestions(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}
