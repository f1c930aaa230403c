package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

// In-memory stores backing the service tests.

type fakeDocumentStore struct {
	docs map[string]*models.Document
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[string]*models.Document)}
}

func (f *fakeDocumentStore) add(id string, kind models.DocumentKind, counterpartyID int64, date time.Time, total, paid string) {
	f.docs[id] = &models.Document{
		ID:             id,
		Kind:           kind,
		CounterpartyID: counterpartyID,
		Date:           date,
		TotalAmount:    decimal.RequireFromString(total),
		PaidAmount:     decimal.RequireFromString(paid),
		AdvanceApplied: decimal.Zero,
	}
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *models.Document) error {
	if _, ok := f.docs[doc.ID]; ok {
		return engine.NewConflict("create document: duplicate record")
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, engine.NewValidation(fmt.Sprintf("Document %s not found.", id))
	}
	return doc, nil
}

func (f *fakeDocumentStore) GetSnapshot(ctx context.Context, id string) (*models.DocumentSnapshot, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, engine.NewValidation(fmt.Sprintf("Document %s not found.", id))
	}
	return &models.DocumentSnapshot{
		DocumentID:     doc.ID,
		Kind:           doc.Kind,
		CounterpartyID: doc.CounterpartyID,
		TotalAmount:    doc.TotalAmount,
		PaidAmount:     doc.PaidAmount,
		AdvanceApplied: doc.AdvanceApplied,
		Date:           doc.Date,
		DueDate:        doc.DueDate,
	}, nil
}

func (f *fakeDocumentStore) ListOpen(ctx context.Context, kind models.DocumentKind, counterpartyID int64) ([]models.OpenDocument, error) {
	var out []models.OpenDocument
	for _, doc := range f.docs {
		if doc.Kind != kind || doc.CounterpartyID != counterpartyID {
			continue
		}
		rem := doc.TotalAmount.Sub(doc.PaidAmount).Sub(doc.AdvanceApplied)
		if rem.Sign() <= 0 {
			continue
		}
		out = append(out, models.OpenDocument{
			DocumentID:   doc.ID,
			Date:         doc.Date,
			DueDate:      doc.DueDate,
			RemainingDue: rem,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out, nil
}

func (f *fakeDocumentStore) ReduceTotal(ctx context.Context, id string, by decimal.Decimal) error {
	doc, ok := f.docs[id]
	if !ok || doc.TotalAmount.LessThan(by) {
		return engine.NewConflict("reduce document total: document missing or total too small")
	}
	doc.TotalAmount = doc.TotalAmount.Sub(by)
	return nil
}

type fakePaymentStore struct {
	payments []*models.Payment
	docs     *fakeDocumentStore
	nextID   int64
}

func newFakePaymentStore(docs *fakeDocumentStore) *fakePaymentStore {
	return &fakePaymentStore{docs: docs, nextID: 1}
}

func (f *fakePaymentStore) Record(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	doc, ok := f.docs.docs[req.DocumentID]
	if !ok {
		return nil, engine.NewConflict("record payment: referenced record does not exist")
	}
	p := &models.Payment{
		ID:            f.nextID,
		DocumentID:    req.DocumentID,
		Amount:        req.Amount,
		Method:        req.Method,
		InstrumentNo:  req.InstrumentNo,
		ClearingState: req.ClearingState,
		Notes:         req.Notes,
	}
	f.nextID++
	f.payments = append(f.payments, p)
	// Mirror the rollup trigger: purchases count cleared rows only.
	if doc.Kind != models.DocumentKindPurchase || p.ClearingState == models.ClearingCleared {
		doc.PaidAmount = doc.PaidAmount.Add(p.Amount)
	}
	return p, nil
}

func (f *fakePaymentStore) Get(ctx context.Context, id int64) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, engine.NewValidation(fmt.Sprintf("Payment %d not found.", id))
}

func (f *fakePaymentStore) ListByDocument(ctx context.Context, documentID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.DocumentID == documentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) UpdateClearingState(ctx context.Context, id int64, req *models.UpdateClearingStateRequest) (*models.Payment, error) {
	p, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ClearingState = req.ClearingState
	return p, nil
}

type fakeAdvanceStore struct {
	entries []models.AdvanceEntry
	nextID  int64
}

func newFakeAdvanceStore() *fakeAdvanceStore {
	return &fakeAdvanceStore{nextID: 1}
}

func (f *fakeAdvanceStore) Balance(ctx context.Context, counterpartyID int64, kind models.DocumentKind, asOf *time.Time) (decimal.Decimal, error) {
	bal := decimal.Zero
	for _, e := range f.entries {
		if e.CounterpartyID != counterpartyID || e.Kind != kind {
			continue
		}
		if asOf != nil && e.TxDate.After(*asOf) {
			continue
		}
		bal = bal.Add(e.Amount)
	}
	return bal, nil
}

func (f *fakeAdvanceStore) List(ctx context.Context, counterpartyID int64, kind models.DocumentKind) ([]models.AdvanceEntry, error) {
	var out []models.AdvanceEntry
	for _, e := range f.entries {
		if e.CounterpartyID == counterpartyID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAdvanceStore) Grant(ctx context.Context, e *models.AdvanceEntry) error {
	e.TxID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAdvanceStore) Apply(ctx context.Context, e *models.AdvanceEntry) error {
	bal, _ := f.Balance(ctx, e.CounterpartyID, e.Kind, nil)
	if bal.Add(e.Amount).Sign() < 0 {
		return engine.NewConflict("advance ledger would go negative")
	}
	e.TxID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *e)
	return nil
}
