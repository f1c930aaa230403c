package services

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/cache"
	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

// DocumentView is a snapshot enriched with the derived remaining due and
// payment status.
type DocumentView struct {
	models.DocumentSnapshot
	RemainingDue  decimal.Decimal      `json:"remaining_due"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

type DocumentService struct {
	Docs DocumentStore
	Step decimal.Decimal
}

func NewDocumentService(docs DocumentStore, step decimal.Decimal) *DocumentService {
	return &DocumentService{Docs: docs, Step: step}
}

func (s *DocumentService) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		return engine.NewValidation("Document ID is required.")
	}
	if doc.TotalAmount.Sign() < 0 {
		return engine.NewValidation("Document total cannot be negative.")
	}
	if err := s.Docs.Create(ctx, doc); err != nil {
		return err
	}
	cache.InvalidateOpenDocuments(ctx, doc.Kind, doc.CounterpartyID)
	return nil
}

// Snapshot returns the document's current position with derived fields.
func (s *DocumentService) Snapshot(ctx context.Context, id string) (*DocumentView, error) {
	snap, err := s.Docs.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DocumentView{
		DocumentSnapshot: *snap,
		RemainingDue:     engine.RemainingDue(*snap, s.Step),
		PaymentStatus:    engine.PaymentStatus(*snap, s.Step),
	}, nil
}

// ListOpen returns the counterparty's unsettled documents, served from cache
// when possible.
func (s *DocumentService) ListOpen(ctx context.Context, kind models.DocumentKind, counterpartyID int64) ([]models.OpenDocument, error) {
	if data, ok := cache.GetCachedOpenDocuments(ctx, kind, counterpartyID); ok {
		var docs []models.OpenDocument
		if err := json.Unmarshal(data, &docs); err == nil {
			return docs, nil
		}
	}

	docs, err := s.Docs.ListOpen(ctx, kind, counterpartyID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(docs); err == nil {
		cache.CacheOpenDocuments(ctx, kind, counterpartyID, data)
	}
	return docs, nil
}
