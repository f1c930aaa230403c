package engine

import (
	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

// RemainingDue computes the open balance of a document snapshot in currency
// steps. Overpaid documents report zero, never a negative remainder.
func RemainingDue(snap models.DocumentSnapshot, step decimal.Decimal) decimal.Decimal {
	step = money.StepOrDefault(step)
	settled := snap.PaidAmount.Add(snap.AdvanceApplied)
	rem := snap.TotalAmount.Sub(settled)
	return money.RoundHalfUp(money.ClampNonNegative(rem), step)
}

// RemainingDueSale is the open balance of a sale: payments in every clearing
// state count toward paid.
func RemainingDueSale(total, paid, advanceApplied, step decimal.Decimal) decimal.Decimal {
	step = money.StepOrDefault(step)
	rem := total.Sub(paid).Sub(advanceApplied)
	return money.RoundHalfUp(money.ClampNonNegative(rem), step)
}

// RemainingPayablePurchase is the open balance of a purchase. The caller must
// pass the cleared-payment sum only; pending, posted and bounced payments
// never reduce this figure.
func RemainingPayablePurchase(total, clearedPaid, advanceApplied, step decimal.Decimal) decimal.Decimal {
	return RemainingDueSale(total, clearedPaid, advanceApplied, step)
}

// PaymentStatus derives the document's payment status from its snapshot.
// A document with nothing settled is unpaid even when its total is zero.
func PaymentStatus(snap models.DocumentSnapshot, step decimal.Decimal) models.PaymentStatus {
	settled := snap.PaidAmount.Add(snap.AdvanceApplied)
	if settled.Sign() <= 0 {
		return models.StatusUnpaid
	}
	if RemainingDue(snap, step).Sign() <= 0 {
		return models.StatusPaid
	}
	return models.StatusPartial
}

// StatusFromPaid derives a payment status from raw totals without a snapshot.
// Nothing paid is always unpaid, even on a zero-total document.
func StatusFromPaid(total, paid decimal.Decimal) models.PaymentStatus {
	if paid.Sign() <= 0 {
		return models.StatusUnpaid
	}
	if paid.GreaterThanOrEqual(total) {
		return models.StatusPaid
	}
	return models.StatusPartial
}

// ProjectAfterPayment returns the settled amount and status a document would
// have after an additional payment of amount. No rounding is applied to the
// status comparison; callers round for display.
func ProjectAfterPayment(snap models.DocumentSnapshot, amount decimal.Decimal) (decimal.Decimal, models.PaymentStatus) {
	newPaid := snap.PaidAmount.Add(snap.AdvanceApplied).Add(amount)
	return newPaid, StatusFromPaid(snap.TotalAmount, newPaid)
}

// ProjectPurchaseAfterPayment projects a purchase header after recording a
// payment. Only a cleared payment moves the header; anything else leaves the
// settled amount and status as they are.
func ProjectPurchaseAfterPayment(snap models.DocumentSnapshot, amount decimal.Decimal, state models.ClearingState) (decimal.Decimal, models.PaymentStatus) {
	if state != models.ClearingCleared {
		settled := snap.PaidAmount.Add(snap.AdvanceApplied)
		return settled, StatusFromPaid(snap.TotalAmount, settled)
	}
	return ProjectAfterPayment(snap, amount)
}

// SettledAmount is the total already applied against a document, paid plus
// advance, rounded to the step.
func SettledAmount(snap models.DocumentSnapshot, step decimal.Decimal) decimal.Decimal {
	step = money.StepOrDefault(step)
	return money.RoundHalfUp(snap.PaidAmount.Add(snap.AdvanceApplied), step)
}
