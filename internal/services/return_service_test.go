package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

func newReturnFixture() (*ReturnService, *fakeDocumentStore, *fakePaymentStore, *fakeAdvanceStore) {
	docs := newFakeDocumentStore()
	payments := newFakePaymentStore(docs)
	advances := newFakeAdvanceStore()
	svc := NewReturnService(docs, payments, advances, d("0.01"))
	return svc, docs, payments, advances
}

func TestReturnRefundsCashThenReducesTotal(t *testing.T) {
	svc, docs, payments, advances := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "1000", "300")

	result, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("450"),
	})
	require.NoError(t, err)
	assert.True(t, result.CashRefund.Equal(d("300")))
	assert.True(t, result.BalanceReduction.Equal(d("150")))
	assert.True(t, result.CreditMemo.IsZero())
	assert.True(t, result.ReturnValue.Equal(d("450")))

	// Refund lands as a negative cash row; the rest shrinks the total, so
	// nothing reaches the ledger.
	require.Len(t, payments.payments, 1)
	assert.True(t, payments.payments[0].Amount.Equal(d("-300")))
	assert.Equal(t, models.MethodCash, payments.payments[0].Method)
	require.NotNil(t, result.RefundPaymentID)
	assert.True(t, docs.docs["INV-1"].TotalAmount.Equal(d("850")))
	assert.Empty(t, advances.entries)
	assert.Nil(t, result.CreditTxID)
}

func TestReturnUnpaidDocumentShrinksBalance(t *testing.T) {
	svc, docs, payments, advances := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "1000", "0")

	result, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("285"),
	})
	require.NoError(t, err)
	assert.True(t, result.CashRefund.IsZero())
	assert.True(t, result.BalanceReduction.Equal(d("285")))
	assert.True(t, result.CreditMemo.IsZero())

	// The customer owes 715 and holds no credit; the 285 is accounted for
	// once, as a balance reduction.
	assert.True(t, docs.docs["INV-1"].TotalAmount.Equal(d("715")))
	assert.Empty(t, payments.payments)
	assert.Empty(t, advances.entries)
	assert.Nil(t, result.RefundPaymentID)
	assert.Nil(t, result.CreditTxID)
}

func TestReturnFullyPaidDocumentAllCash(t *testing.T) {
	svc, docs, payments, advances := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "500", "500")

	result, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("200"),
	})
	require.NoError(t, err)
	assert.True(t, result.CashRefund.Equal(d("200")))
	assert.True(t, result.BalanceReduction.IsZero())
	assert.True(t, result.CreditMemo.IsZero())
	require.Len(t, payments.payments, 1)
	assert.True(t, docs.docs["INV-1"].TotalAmount.Equal(d("500")))
	assert.Empty(t, advances.entries)
}

func TestReturnOverflowBeyondBalancePostsCreditMemo(t *testing.T) {
	svc, docs, _, advances := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	docs.docs["INV-1"].AdvanceApplied = d("60")

	result, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("80"),
	})
	require.NoError(t, err)
	assert.True(t, result.CashRefund.IsZero())
	assert.True(t, result.BalanceReduction.Equal(d("40")))
	assert.True(t, result.CreditMemo.Equal(d("40")))
	assert.True(t, docs.docs["INV-1"].TotalAmount.Equal(d("60")))

	require.Len(t, advances.entries, 1)
	assert.Equal(t, models.AdvanceReturnCredit, advances.entries[0].SourceType)
	assert.True(t, advances.entries[0].Amount.Equal(d("40")))
	require.NotNil(t, result.CreditTxID)
}

func TestReturnRejectsExcessValue(t *testing.T) {
	svc, docs, _, _ := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "500", "0")

	_, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("600"),
	})
	require.Error(t, err)
	assert.True(t, engine.IsLimitExceeded(err))
	assert.True(t, docs.docs["INV-1"].TotalAmount.Equal(d("500")))
}

func TestReturnRejectsNonPositiveValue(t *testing.T) {
	svc, docs, _, _ := newReturnFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "500", "0")

	_, err := svc.Settle(context.Background(), &models.CreateReturnRequest{
		DocumentID:  "INV-1",
		ReturnValue: d("0"),
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}
