package services

import (
	"context"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/cache"
	"payledger-backend/internal/engine"
	"payledger-backend/internal/metrics"
	"payledger-backend/internal/models"
)

type PaymentService struct {
	Docs     DocumentStore
	Payments PaymentStore
	Step     decimal.Decimal
}

func NewPaymentService(docs DocumentStore, payments PaymentStore, step decimal.Decimal) *PaymentService {
	return &PaymentService{Docs: docs, Payments: payments, Step: step}
}

// Record validates one tender row against its method rules and the target
// document, then writes it.
func (s *PaymentService) Record(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	snap, err := s.Docs.GetSnapshot(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := engine.NormalizeTender(snap.Kind, req); err != nil {
		return nil, err
	}

	p, err := s.Payments.Record(ctx, req)
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
	cache.InvalidateOpenDocuments(ctx, snap.Kind, snap.CounterpartyID)
	return p, nil
}

// RecordBatch validates the rows as one batch (single document, no mixed
// signs) and records them in order.
func (s *PaymentService) RecordBatch(ctx context.Context, reqs []*models.CreatePaymentRequest) ([]*models.Payment, error) {
	if len(reqs) == 0 {
		return nil, engine.NewValidation("A payment batch needs at least one row.")
	}
	for _, r := range reqs[1:] {
		if r.DocumentID != reqs[0].DocumentID {
			return nil, engine.NewValidation("A payment batch must target a single document.")
		}
	}

	snap, err := s.Docs.GetSnapshot(ctx, reqs[0].DocumentID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateTenderBatch(snap.Kind, reqs); err != nil {
		return nil, err
	}

	var payments []*models.Payment
	for _, req := range reqs {
		p, err := s.Payments.Record(ctx, req)
		if err != nil {
			return nil, err
		}
		metrics.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
		payments = append(payments, p)
	}
	cache.InvalidateOpenDocuments(ctx, snap.Kind, snap.CounterpartyID)
	return payments, nil
}

// ListByDocument returns the document's tender rows.
func (s *PaymentService) ListByDocument(ctx context.Context, documentID string) ([]models.Payment, error) {
	return s.Payments.ListByDocument(ctx, documentID)
}

// UpdateClearingState validates the lifecycle transition before persisting
// it. Clearing a purchase payment moves its amount into the rollup.
func (s *PaymentService) UpdateClearingState(ctx context.Context, id int64, req *models.UpdateClearingStateRequest) (*models.Payment, error) {
	current, err := s.Payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := engine.ValidateClearingTransition(current.ClearingState, req.ClearingState); err != nil {
		return nil, err
	}

	p, err := s.Payments.UpdateClearingState(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if snap, err := s.Docs.GetSnapshot(ctx, p.DocumentID); err == nil {
		cache.InvalidateOpenDocuments(ctx, snap.Kind, snap.CounterpartyID)
	}
	return p, nil
}
