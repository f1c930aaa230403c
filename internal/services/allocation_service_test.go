package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func newAllocFixture() (*AllocationService, *fakeDocumentStore, *fakePaymentStore) {
	docs := newFakeDocumentStore()
	payments := newFakePaymentStore(docs)
	svc := NewAllocationService(docs, payments, d("0.01"), engine.StrategyOldestFirst)
	return svc, docs, payments
}

func TestAllocationPreview(t *testing.T) {
	svc, docs, _ := newAllocFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	docs.add("INV-2", models.DocumentKindSale, 7, day(5), "50", "0")

	plan, err := svc.Preview(context.Background(), &AllocationPreviewRequest{
		Kind:           models.DocumentKindSale,
		CounterpartyID: 7,
		Amount:         d("120"),
	})
	require.NoError(t, err)
	require.Len(t, plan.Rows, 2)
	assert.True(t, plan.Rows[0].Allocated.Equal(d("100")))
	assert.True(t, plan.Rows[1].Allocated.Equal(d("20")))
	assert.True(t, plan.Unallocated.IsZero())
}

func TestAllocationCommitRecordsPayments(t *testing.T) {
	svc, docs, payments := newAllocFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	docs.add("INV-2", models.DocumentKindSale, 7, day(5), "50", "0")

	result, err := svc.Commit(context.Background(), &AllocationCommitRequest{
		AllocationPreviewRequest: AllocationPreviewRequest{
			Kind:           models.DocumentKindSale,
			CounterpartyID: 7,
			Amount:         d("120"),
		},
		Method: models.MethodCash,
	})
	require.NoError(t, err)
	require.Len(t, result.Payments, 2)
	assert.Len(t, payments.payments, 2)
	assert.True(t, docs.docs["INV-1"].PaidAmount.Equal(d("100")))
	assert.True(t, docs.docs["INV-2"].PaidAmount.Equal(d("20")))
}

func TestAllocationCommitRejectsBadTender(t *testing.T) {
	svc, docs, payments := newAllocFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")

	// Cheque without a bank account fails validation before any write.
	_, err := svc.Commit(context.Background(), &AllocationCommitRequest{
		AllocationPreviewRequest: AllocationPreviewRequest{
			Kind:           models.DocumentKindSale,
			CounterpartyID: 7,
			Amount:         d("50"),
		},
		Method: models.MethodCheque,
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
	assert.Empty(t, payments.payments)
}

func TestAllocationCommitNothingToRecord(t *testing.T) {
	svc, docs, _ := newAllocFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "100")

	result, err := svc.Commit(context.Background(), &AllocationCommitRequest{
		AllocationPreviewRequest: AllocationPreviewRequest{
			Kind:           models.DocumentKindSale,
			CounterpartyID: 7,
			Amount:         d("50"),
		},
		Method: models.MethodCash,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Payments)
	assert.Contains(t, result.Plan.Warnings, "No open balance to allocate.")
}

func TestEnvelopeAndSuggestions(t *testing.T) {
	svc, docs, _ := newAllocFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "40")

	plan, err := svc.Envelope(context.Background(), "INV-1", "n_parts:3", decimal.Zero)
	require.NoError(t, err)
	require.Len(t, plan.Parts, 3)
	assert.True(t, plan.Remaining.Equal(d("60")))
	assert.True(t, plan.AllocatedNow.Equal(d("20")))
	assert.True(t, plan.RemainingAfter.Equal(d("40")))
	assert.Equal(t, models.StatusPartial, plan.ProjectedStatus)

	sugg, err := svc.Suggestions(context.Background(), "INV-1")
	require.NoError(t, err)
	require.Len(t, sugg, 3)
	assert.True(t, sugg[0].Amount.Equal(d("60")))
	assert.True(t, sugg[1].Amount.Equal(d("30")))
	assert.True(t, sugg[2].Amount.Equal(d("20")))
}

func TestEnvelopeUnknownDocument(t *testing.T) {
	svc, _, _ := newAllocFixture()
	_, err := svc.Envelope(context.Background(), "NOPE", "half_now", decimal.Zero)
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}
