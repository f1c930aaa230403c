package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

// LedgerBalance sums advance entries strictly in (tx_date, tx_id) order up to
// asOf (inclusive). A nil asOf means the full ledger. The returned balance is
// rounded to the step.
func LedgerBalance(entries []models.AdvanceEntry, asOf *time.Time, step decimal.Decimal) decimal.Decimal {
	step = money.StepOrDefault(step)
	sorted := make([]models.AdvanceEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].TxDate.Equal(sorted[j].TxDate) {
			return sorted[i].TxDate.Before(sorted[j].TxDate)
		}
		return sorted[i].TxID < sorted[j].TxID
	})
	bal := decimal.Zero
	for _, e := range sorted {
		if asOf != nil && e.TxDate.After(*asOf) {
			continue
		}
		bal = bal.Add(e.Amount)
	}
	return money.RoundHalfUp(bal, step)
}

// MaxApplicable is how much credit can be pushed onto a document right now:
// the lesser of the available balance and the remaining due.
func MaxApplicable(balance, remaining decimal.Decimal) decimal.Decimal {
	m := decimal.Min(balance, remaining)
	return money.ClampNonNegative(m)
}

// ValidateGrantAmount checks a deposit or return-credit grant.
func ValidateGrantAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return NewValidation("Enter a valid positive amount to apply.")
	}
	return nil
}

// ValidateApplyCredit checks an apply-credit request against the document's
// remaining due and the counterparty's available balance. Message wording
// tracks the document kind: sales speak of remaining due and customer credit,
// purchases of payable and vendor credit.
func ValidateApplyCredit(kind models.DocumentKind, amount, remaining, balance decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return NewValidation("Enter a valid positive amount to apply.")
	}
	if remaining.Sign() <= 0 {
		if kind == models.DocumentKindPurchase {
			return NewValidation("This purchase has no remaining payable.")
		}
		return NewValidation("This sale has no remaining due.")
	}
	if balance.Sign() <= 0 {
		if kind == models.DocumentKindPurchase {
			return NewValidation("Vendor has no available credit to apply.")
		}
		return NewValidation("Customer has no available credit to apply.")
	}
	if amount.GreaterThan(remaining) {
		if kind == models.DocumentKindPurchase {
			return NewLimitExceeded("Cannot apply credit beyond remaining payable.")
		}
		return NewLimitExceeded("Cannot apply credit beyond remaining due.")
	}
	if amount.GreaterThan(balance) {
		if kind == models.DocumentKindPurchase {
			return NewLimitExceeded("Insufficient vendor credit.")
		}
		return NewLimitExceeded("Insufficient customer credit.")
	}
	return nil
}

// SignForSource gives the ledger sign convention for a source type: grants
// are positive, applications negative.
func SignForSource(src models.AdvanceSourceType) int {
	switch src {
	case models.AdvanceAppliedToSale, models.AdvanceAppliedToPurchase:
		return -1
	default:
		return 1
	}
}
