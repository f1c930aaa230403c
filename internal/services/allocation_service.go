package services

import (
	"context"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/cache"
	"payledger-backend/internal/engine"
	"payledger-backend/internal/metrics"
	"payledger-backend/internal/models"
)

// AllocationPreviewRequest plans one amount over a counterparty's open
// documents.
type AllocationPreviewRequest struct {
	Kind           models.DocumentKind        `json:"kind"`
	CounterpartyID int64                      `json:"counterparty_id"`
	Amount         decimal.Decimal            `json:"amount"`
	Strategy       string                     `json:"strategy,omitempty"`
	Overrides      map[string]decimal.Decimal `json:"overrides,omitempty"`
}

// AllocationCommitRequest turns a previewed plan into recorded payments, one
// tender row per allocated document.
type AllocationCommitRequest struct {
	AllocationPreviewRequest
	Method        models.PaymentMethod `json:"method"`
	BankAccountID *int64               `json:"bank_account_id,omitempty"`
	InstrumentNo  string               `json:"instrument_no,omitempty"`
	RefNo         string               `json:"ref_no,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	CreatedBy     *int64               `json:"created_by,omitempty"`
}

// AllocationCommitResult pairs the plan with the payments it produced.
type AllocationCommitResult struct {
	Plan     *models.AllocationPlan `json:"plan"`
	Payments []*models.Payment      `json:"payments"`
}

type AllocationService struct {
	Docs            DocumentStore
	Payments        PaymentStore
	Step            decimal.Decimal
	DefaultStrategy string
}

func NewAllocationService(docs DocumentStore, payments PaymentStore, step decimal.Decimal, defaultStrategy string) *AllocationService {
	if defaultStrategy == "" {
		defaultStrategy = engine.StrategyOldestFirst
	}
	return &AllocationService{Docs: docs, Payments: payments, Step: step, DefaultStrategy: defaultStrategy}
}

// Preview computes an allocation plan without touching storage.
func (s *AllocationService) Preview(ctx context.Context, req *AllocationPreviewRequest) (*models.AllocationPlan, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = s.DefaultStrategy
	}

	open, err := s.Docs.ListOpen(ctx, req.Kind, req.CounterpartyID)
	if err != nil {
		return nil, err
	}

	candidates := make([]engine.Candidate, 0, len(open))
	for _, d := range open {
		candidates = append(candidates, engine.Candidate{
			DocumentID: d.DocumentID,
			Date:       d.Date,
			DueDate:    d.DueDate,
			Remaining:  d.RemainingDue,
		})
	}

	plan, err := engine.Allocate(engine.PlanInput{
		Amount:     req.Amount,
		Strategy:   strategy,
		Step:       s.Step,
		Candidates: candidates,
		Overrides:  req.Overrides,
	})
	if err != nil {
		return nil, err
	}

	metrics.AllocationsPlanned.WithLabelValues(strategy).Inc()
	return plan, nil
}

// Commit previews the plan and records one payment per allocated row. Each
// row passes tender validation before anything is written, so a bad method
// or bank-account combination rejects the whole batch.
func (s *AllocationService) Commit(ctx context.Context, req *AllocationCommitRequest) (*AllocationCommitResult, error) {
	plan, err := s.Preview(ctx, &req.AllocationPreviewRequest)
	if err != nil {
		return nil, err
	}

	var reqs []*models.CreatePaymentRequest
	for _, row := range plan.Rows {
		if row.Allocated.Sign() <= 0 {
			continue
		}
		reqs = append(reqs, &models.CreatePaymentRequest{
			DocumentID:    row.DocumentID,
			Amount:        row.Allocated,
			Method:        req.Method,
			BankAccountID: req.BankAccountID,
			InstrumentNo:  req.InstrumentNo,
			RefNo:         req.RefNo,
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
		})
	}
	if len(reqs) == 0 {
		return &AllocationCommitResult{Plan: plan}, nil
	}

	if err := engine.ValidateTenderBatch(req.Kind, reqs); err != nil {
		return nil, err
	}

	result := &AllocationCommitResult{Plan: plan}
	for _, pr := range reqs {
		p, err := s.Payments.Record(ctx, pr)
		if err != nil {
			return nil, err
		}
		metrics.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
		result.Payments = append(result.Payments, p)
	}

	cache.InvalidateOpenDocuments(ctx, req.Kind, req.CounterpartyID)
	return result, nil
}

// Envelope plans installments for a single document.
func (s *AllocationService) Envelope(ctx context.Context, documentID, strategy string, amount decimal.Decimal) (*models.EnvelopePlan, error) {
	snap, err := s.Docs.GetSnapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return engine.NewPartialPlanner(s.Step).MakeEnvelope(documentID, strategy, *snap, amount)
}

// Suggestions returns the quick-pick amounts for a document.
func (s *AllocationService) Suggestions(ctx context.Context, documentID string) ([]models.Suggestion, error) {
	snap, err := s.Docs.GetSnapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	remaining := engine.RemainingDue(*snap, s.Step)
	return engine.NewPartialPlanner(s.Step).Suggestions(remaining), nil
}
