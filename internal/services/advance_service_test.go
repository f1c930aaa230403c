package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

func newAdvanceFixture() (*AdvanceService, *fakeDocumentStore, *fakeAdvanceStore) {
	docs := newFakeDocumentStore()
	advances := newFakeAdvanceStore()
	svc := NewAdvanceService(docs, advances, d("0.01"))
	return svc, docs, advances
}

func TestAdvanceGrantAndBalance(t *testing.T) {
	svc, _, _ := newAdvanceFixture()
	ctx := context.Background()

	entry, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7,
		Kind:           models.DocumentKindSale,
		Amount:         d("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AdvanceDeposit, entry.SourceType)

	bal, err := svc.Balance(ctx, 7, models.DocumentKindSale, nil)
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("200")))
}

func TestAdvanceGrantRejectsNegative(t *testing.T) {
	svc, _, _ := newAdvanceFixture()
	_, err := svc.Grant(context.Background(), &models.CreateAdvanceRequest{
		CounterpartyID: 7,
		Kind:           models.DocumentKindSale,
		Amount:         d("-50"),
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))

	_, err = svc.Grant(context.Background(), &models.CreateAdvanceRequest{
		CounterpartyID: 7,
		Kind:           models.DocumentKindSale,
		Amount:         d("50"),
		SourceType:     models.AdvanceAppliedToSale,
	})
	require.Error(t, err)
	assert.True(t, engine.IsValidation(err))
}

func TestAdvanceApply(t *testing.T) {
	svc, docs, advances := newAdvanceFixture()
	ctx := context.Background()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	_, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7, Kind: models.DocumentKindSale, Amount: d("500"),
	})
	require.NoError(t, err)

	entry, err := svc.Apply(ctx, &models.ApplyAdvanceRequest{
		DocumentID: "INV-1",
		Amount:     d("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AdvanceAppliedToSale, entry.SourceType)
	assert.True(t, entry.Amount.Equal(d("-60")))
	require.NotNil(t, entry.SourceID)
	assert.Equal(t, "INV-1", *entry.SourceID)

	bal, err := svc.Balance(ctx, 7, models.DocumentKindSale, nil)
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("440")))
	assert.Len(t, advances.entries, 2)
}

func TestAdvanceApplyLimits(t *testing.T) {
	svc, docs, _ := newAdvanceFixture()
	ctx := context.Background()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	_, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7, Kind: models.DocumentKindSale, Amount: d("500"),
	})
	require.NoError(t, err)

	// More than the remaining due even though the balance covers it.
	_, err = svc.Apply(ctx, &models.ApplyAdvanceRequest{DocumentID: "INV-1", Amount: d("150")})
	require.EqualError(t, err, "Cannot apply credit beyond remaining due.")
	assert.True(t, engine.IsLimitExceeded(err))
}

func TestAdvanceApplyInsufficientCredit(t *testing.T) {
	svc, docs, _ := newAdvanceFixture()
	ctx := context.Background()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")
	_, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7, Kind: models.DocumentKindSale, Amount: d("30"),
	})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, &models.ApplyAdvanceRequest{DocumentID: "INV-1", Amount: d("80")})
	require.EqualError(t, err, "Insufficient customer credit.")
	assert.True(t, engine.IsLimitExceeded(err))
}

func TestAdvanceApplyNoCredit(t *testing.T) {
	svc, docs, _ := newAdvanceFixture()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "0")

	_, err := svc.Apply(context.Background(), &models.ApplyAdvanceRequest{
		DocumentID: "INV-1", Amount: d("10"),
	})
	require.EqualError(t, err, "Customer has no available credit to apply.")
}

func TestAdvanceMaxApplicable(t *testing.T) {
	svc, docs, _ := newAdvanceFixture()
	ctx := context.Background()
	docs.add("INV-1", models.DocumentKindSale, 7, day(1), "100", "40")
	_, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7, Kind: models.DocumentKindSale, Amount: d("500"),
	})
	require.NoError(t, err)

	max, err := svc.MaxApplicable(ctx, "INV-1")
	require.NoError(t, err)
	assert.True(t, max.Equal(d("60")))
}

// Ledger entries for sales and purchases never mix.
func TestAdvanceKindsAreSeparate(t *testing.T) {
	svc, _, _ := newAdvanceFixture()
	ctx := context.Background()
	_, err := svc.Grant(ctx, &models.CreateAdvanceRequest{
		CounterpartyID: 7, Kind: models.DocumentKindSale, Amount: d("100"),
	})
	require.NoError(t, err)

	bal, err := svc.Balance(ctx, 7, models.DocumentKindPurchase, nil)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}
