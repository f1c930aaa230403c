package engine

import (
	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

// ReturnSettlement accounts for a return value exactly once: cash comes back
// up to what was collected, the outstanding total shrinks by what it can
// absorb, and only the overflow lands on the counterparty ledger.
// CashRefund + BalanceReduction + CreditMemo always equals the return value.
type ReturnSettlement struct {
	CashRefund       decimal.Decimal
	BalanceReduction decimal.Decimal
	CreditMemo       decimal.Decimal
}

// SplitReturnValue decides the cash portion of a return. Cash refunds never
// exceed the cap; the remainder comes back as non-cash credit.
func SplitReturnValue(returnValue, maxCashRefund, step decimal.Decimal) (cash, creditOut decimal.Decimal) {
	step = money.StepOrDefault(step)
	value := money.RoundHalfUp(money.ClampNonNegative(returnValue), step)
	limit := money.RoundHalfUp(money.ClampNonNegative(maxCashRefund), step)

	cash = decimal.Min(value, limit)
	return cash, value.Sub(cash)
}

// SettleReturn validates a return against the document snapshot and computes
// its settlement. The return value cannot exceed the document total. Cash is
// capped by the amount actually paid; the non-cash remainder reduces the
// outstanding total, and whatever the balance cannot absorb becomes a credit
// memo.
func SettleReturn(snap models.DocumentSnapshot, returnValue, step decimal.Decimal) (ReturnSettlement, error) {
	step = money.StepOrDefault(step)
	if returnValue.Sign() <= 0 {
		return ReturnSettlement{}, NewValidation("Enter a valid positive return value.")
	}
	value := money.RoundHalfUp(returnValue, step)
	total := money.RoundHalfUp(snap.TotalAmount, step)
	if value.GreaterThan(total) {
		return ReturnSettlement{}, NewLimitExceeded("Return value cannot exceed the document total.")
	}

	cash, creditOut := SplitReturnValue(value, snap.PaidAmount, step)

	// After the refund row posts, the document has this much settled against
	// it; the open balance left over is all the total reduction can absorb.
	settledAfter := money.ClampNonNegative(snap.PaidAmount.Sub(cash)).Add(snap.AdvanceApplied)
	absorbable := money.RoundHalfUp(money.ClampNonNegative(total.Sub(settledAfter)), step)

	reduction := decimal.Min(creditOut, absorbable)
	return ReturnSettlement{
		CashRefund:       cash,
		BalanceReduction: reduction,
		CreditMemo:       creditOut.Sub(reduction),
	}, nil
}
