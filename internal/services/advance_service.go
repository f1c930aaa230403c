package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/cache"
	"payledger-backend/internal/engine"
	"payledger-backend/internal/metrics"
	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

type AdvanceService struct {
	Docs     DocumentStore
	Advances AdvanceStore
	Step     decimal.Decimal
}

func NewAdvanceService(docs DocumentStore, advances AdvanceStore, step decimal.Decimal) *AdvanceService {
	return &AdvanceService{Docs: docs, Advances: advances, Step: step}
}

// Balance returns the counterparty's available credit. Point-in-time queries
// bypass the cache.
func (s *AdvanceService) Balance(ctx context.Context, counterpartyID int64, kind models.DocumentKind, asOf *time.Time) (decimal.Decimal, error) {
	if asOf == nil {
		if val, ok := cache.GetCachedBalance(ctx, kind, counterpartyID); ok {
			if bal, err := decimal.NewFromString(val); err == nil {
				return bal, nil
			}
		}
	}

	bal, err := s.Advances.Balance(ctx, counterpartyID, kind, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	bal = money.RoundHalfUp(bal, money.StepOrDefault(s.Step))

	if asOf == nil {
		cache.CacheBalance(ctx, kind, counterpartyID, bal.String())
	}
	return bal, nil
}

// List returns the full ledger in posting order.
func (s *AdvanceService) List(ctx context.Context, counterpartyID int64, kind models.DocumentKind) ([]models.AdvanceEntry, error) {
	return s.Advances.List(ctx, counterpartyID, kind)
}

// Grant posts a deposit or return credit to the ledger.
func (s *AdvanceService) Grant(ctx context.Context, req *models.CreateAdvanceRequest) (*models.AdvanceEntry, error) {
	if err := engine.ValidateGrantAmount(req.Amount); err != nil {
		return nil, err
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = models.AdvanceDeposit
	}
	if engine.SignForSource(sourceType) < 0 {
		return nil, engine.NewValidation("Use the apply endpoint to consume credit.")
	}

	txDate := time.Now()
	if req.TxDate != nil {
		txDate = *req.TxDate
	}

	entry := &models.AdvanceEntry{
		CounterpartyID: req.CounterpartyID,
		Kind:           req.Kind,
		TxDate:         txDate,
		Amount:         money.RoundHalfUp(req.Amount, money.StepOrDefault(s.Step)),
		SourceType:     sourceType,
		SourceID:       req.SourceID,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}
	if err := s.Advances.Grant(ctx, entry); err != nil {
		return nil, err
	}

	cache.InvalidateBalance(ctx, req.Kind, req.CounterpartyID)
	return entry, nil
}

// Apply consumes available credit against one document. Validation runs
// against the live remaining due and balance; the repository re-checks the
// balance under a row lock before committing.
func (s *AdvanceService) Apply(ctx context.Context, req *models.ApplyAdvanceRequest) (*models.AdvanceEntry, error) {
	snap, err := s.Docs.GetSnapshot(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	remaining := engine.RemainingDue(*snap, s.Step)
	balance, err := s.Advances.Balance(ctx, snap.CounterpartyID, snap.Kind, nil)
	if err != nil {
		return nil, err
	}

	amount := money.RoundHalfUp(req.Amount, money.StepOrDefault(s.Step))
	if err := engine.ValidateApplyCredit(snap.Kind, amount, remaining, balance); err != nil {
		return nil, err
	}

	sourceType := models.AdvanceAppliedToSale
	if snap.Kind == models.DocumentKindPurchase {
		sourceType = models.AdvanceAppliedToPurchase
	}

	txDate := time.Now()
	if req.TxDate != nil {
		txDate = *req.TxDate
	}

	docID := req.DocumentID
	entry := &models.AdvanceEntry{
		CounterpartyID: snap.CounterpartyID,
		Kind:           snap.Kind,
		TxDate:         txDate,
		Amount:         amount.Neg(),
		SourceType:     sourceType,
		SourceID:       &docID,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}
	if err := s.Advances.Apply(ctx, entry); err != nil {
		return nil, err
	}

	metrics.AdvanceApplied.Inc()
	cache.InvalidateBalance(ctx, snap.Kind, snap.CounterpartyID)
	cache.InvalidateOpenDocuments(ctx, snap.Kind, snap.CounterpartyID)
	return entry, nil
}

// MaxApplicable reports how much credit could be applied to a document right
// now.
func (s *AdvanceService) MaxApplicable(ctx context.Context, documentID string) (decimal.Decimal, error) {
	snap, err := s.Docs.GetSnapshot(ctx, documentID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := engine.RemainingDue(*snap, s.Step)
	balance, err := s.Advances.Balance(ctx, snap.CounterpartyID, snap.Kind, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return engine.MaxApplicable(balance, remaining), nil
}
