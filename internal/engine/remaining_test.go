package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"payledger-backend/internal/models"
)

func snap(total, paid, advance string) models.DocumentSnapshot {
	return models.DocumentSnapshot{
		DocumentID:     "INV-1",
		Kind:           models.DocumentKindSale,
		TotalAmount:    d(total),
		PaidAmount:     d(paid),
		AdvanceApplied: d(advance),
	}
}

func TestRemainingDue(t *testing.T) {
	assert.True(t, RemainingDue(snap("100", "30", "20"), decimal.Decimal{}).Equal(d("50")))
	// Overpayment clamps to zero rather than going negative.
	assert.True(t, RemainingDue(snap("100", "150", "0"), decimal.Decimal{}).IsZero())
	assert.True(t, RemainingDue(snap("100.005", "0", "0"), decimal.Decimal{}).Equal(d("100.01")))
}

func TestPaymentStatus(t *testing.T) {
	assert.Equal(t, models.StatusUnpaid, PaymentStatus(snap("100", "0", "0"), decimal.Decimal{}))
	assert.Equal(t, models.StatusPartial, PaymentStatus(snap("100", "40", "0"), decimal.Decimal{}))
	assert.Equal(t, models.StatusPartial, PaymentStatus(snap("100", "0", "40"), decimal.Decimal{}))
	assert.Equal(t, models.StatusPaid, PaymentStatus(snap("100", "60", "40"), decimal.Decimal{}))
	assert.Equal(t, models.StatusPaid, PaymentStatus(snap("100", "150", "0"), decimal.Decimal{}))
	// A zero-total document with nothing settled stays unpaid.
	assert.Equal(t, models.StatusUnpaid, PaymentStatus(snap("0", "0", "0"), decimal.Decimal{}))
}

func TestRemainingPayablePurchaseCountsClearedOnly(t *testing.T) {
	// The cleared sum is the caller's responsibility; a pending cheque worth
	// 70 must not appear in the figure it passes.
	got := RemainingPayablePurchase(d("100"), d("30"), d("0"), decimal.Decimal{})
	assert.True(t, got.Equal(d("70")))
	assert.True(t, RemainingDueSale(d("100"), d("30"), d("20"), decimal.Decimal{}).Equal(d("50")))
}

func TestProjectPurchaseAfterPayment(t *testing.T) {
	s := snap("100", "40", "0")

	settled, status := ProjectPurchaseAfterPayment(s, d("60"), models.ClearingPending)
	assert.True(t, settled.Equal(d("40")))
	assert.Equal(t, models.StatusPartial, status)

	settled, status = ProjectPurchaseAfterPayment(s, d("60"), models.ClearingCleared)
	assert.True(t, settled.Equal(d("100")))
	assert.Equal(t, models.StatusPaid, status)
}

func TestStatusFromPaidMonotonic(t *testing.T) {
	total := d("100")
	assert.Equal(t, models.StatusUnpaid, StatusFromPaid(total, d("0")))
	assert.Equal(t, models.StatusPartial, StatusFromPaid(total, d("0.01")))
	assert.Equal(t, models.StatusPartial, StatusFromPaid(total, d("99.99")))
	assert.Equal(t, models.StatusPaid, StatusFromPaid(total, d("100")))
	assert.Equal(t, models.StatusPaid, StatusFromPaid(total, d("250")))
	assert.Equal(t, models.StatusUnpaid, StatusFromPaid(d("0"), d("0")))
}

func TestProjectAfterPayment(t *testing.T) {
	newPaid, status := ProjectAfterPayment(snap("100", "40", "10"), d("50"))
	assert.True(t, newPaid.Equal(d("100")))
	assert.Equal(t, models.StatusPaid, status)

	newPaid, status = ProjectAfterPayment(snap("100", "0", "0"), d("30"))
	assert.True(t, newPaid.Equal(d("30")))
	assert.Equal(t, models.StatusPartial, status)

	_, status = ProjectAfterPayment(snap("100", "0", "0"), d("0"))
	assert.Equal(t, models.StatusUnpaid, status)
}

func TestSettledAmount(t *testing.T) {
	assert.True(t, SettledAmount(snap("100", "30.004", "20"), decimal.Decimal{}).Equal(d("50")))
}
