package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

func newPaymentFixture() (*PaymentService, *fakeDocumentStore, *fakePaymentStore) {
	docs := newFakeDocumentStore()
	payments := newFakePaymentStore(docs)
	svc := NewPaymentService(docs, payments, d("0.01"))
	return svc, docs, payments
}

func TestPaymentRecordAppliesDefaults(t *testing.T) {
	svc, docs, _ := newPaymentFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")

	p, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID: "INV-1",
		Amount:     d("40"),
		Method:     models.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClearingPosted, p.ClearingState)
	assert.True(t, docs.docs["INV-1"].PaidAmount.Equal(d("40")))
}

func TestPaymentRecordUnknownDocument(t *testing.T) {
	svc, _, _ := newPaymentFixture()
	_, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID: "NOPE",
		Amount:     d("40"),
		Method:     models.MethodCash,
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}

// A pending cheque against a purchase does not move the paid rollup until it
// clears.
func TestPurchaseChequeCountsWhenCleared(t *testing.T) {
	svc, docs, _ := newPaymentFixture()
	docs.add("PO-1", models.DocumentKindPurchase, 9, day(1), "100", "0")
	bank := int64(3)

	p, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID:    "PO-1",
		Amount:        d("100"),
		Method:        models.MethodCheque,
		BankAccountID: &bank,
		InstrumentNo:  "CHQ-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClearingPending, p.ClearingState)
	assert.True(t, docs.docs["PO-1"].PaidAmount.IsZero())
}

// Sale rollups count every payment row, even after an instrument bounces.
// Bounced receipts are written off through a return, never by shrinking
// paid_amount.
func TestSaleChequeStaysInRollupAfterBounce(t *testing.T) {
	svc, docs, _ := newPaymentFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	bank := int64(3)

	p, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID:    "INV-1",
		Amount:        d("60"),
		Method:        models.MethodCheque,
		BankAccountID: &bank,
		InstrumentNo:  "CHQ-5",
	})
	require.NoError(t, err)
	assert.True(t, docs.docs["INV-1"].PaidAmount.Equal(d("60")))

	_, err = svc.UpdateClearingState(context.Background(), p.ID, &models.UpdateClearingStateRequest{
		ClearingState: models.ClearingBounced,
	})
	require.NoError(t, err)
	assert.True(t, docs.docs["INV-1"].PaidAmount.Equal(d("60")))
}

func TestPaymentBatchRejectsMixedSigns(t *testing.T) {
	svc, docs, payments := newPaymentFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")

	_, err := svc.RecordBatch(context.Background(), []*models.CreatePaymentRequest{
		{DocumentID: "INV-1", Amount: d("40"), Method: models.MethodCash},
		{DocumentID: "INV-1", Amount: d("-10"), Method: models.MethodCash},
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Empty(t, payments.payments)
}

func TestPaymentBatchRejectsMultipleDocuments(t *testing.T) {
	svc, docs, payments := newPaymentFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	docs.add("INV-2", models.DocumentKindSale, 7, day(2), "100", "0")

	_, err := svc.RecordBatch(context.Background(), []*models.CreatePaymentRequest{
		{DocumentID: "INV-1", Amount: d("40"), Method: models.MethodCash},
		{DocumentID: "INV-2", Amount: d("10"), Method: models.MethodCash},
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Empty(t, payments.payments)
}

func TestRecordPurchaseRefundByTransfer(t *testing.T) {
	svc, docs, _ := newPaymentFixture()
	docs.add("PO-1", models.DocumentKindPurchase, 4, day(1), "500", "500")

	p, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID:   "PO-1",
		Amount:       d("-120"),
		Method:       models.MethodBankTransfer,
		InstrumentNo: "RTN-2",
	})
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(d("-120")))
	assert.Equal(t, models.ClearingPosted, p.ClearingState)
	// The refund sits outside the rollup until it clears.
	assert.True(t, docs.docs["PO-1"].PaidAmount.Equal(d("500")))
}

func TestUpdateClearingLifecycle(t *testing.T) {
	svc, docs, _ := newPaymentFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	bank := int64(3)

	p, err := svc.Record(context.Background(), &models.CreatePaymentRequest{
		DocumentID:    "INV-1",
		Amount:        d("100"),
		Method:        models.MethodCheque,
		BankAccountID: &bank,
		InstrumentNo:  "CHQ-9",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateClearingState(context.Background(), p.ID, &models.UpdateClearingStateRequest{
		ClearingState: models.ClearingCleared,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClearingCleared, updated.ClearingState)

	// Cleared is terminal.
	_, err = svc.UpdateClearingState(context.Background(), p.ID, &models.UpdateClearingStateRequest{
		ClearingState: models.ClearingPending,
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}
