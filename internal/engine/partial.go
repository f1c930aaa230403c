package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

// Envelope strategy names accepted by MakeEnvelope. n_parts takes a count
// suffix, e.g. "n_parts:3".
const (
	EnvelopeCapToRemaining = "cap_to_remaining"
	EnvelopeHalfNow        = "half_now"
	EnvelopeNParts         = "n_parts"
)

// PartialPlanner plans single-document installments in a fixed currency step.
type PartialPlanner struct {
	Step decimal.Decimal
}

func NewPartialPlanner(step decimal.Decimal) *PartialPlanner {
	return &PartialPlanner{Step: money.StepOrDefault(step)}
}

// ClampToRemaining caps a requested amount to the open balance, rounded
// half-up to the step.
func (p *PartialPlanner) ClampToRemaining(amount, remaining decimal.Decimal) decimal.Decimal {
	remaining = money.ClampNonNegative(remaining)
	capped := decimal.Min(money.ClampNonNegative(amount), remaining)
	return money.RoundHalfUp(capped, p.Step)
}

// SplitEven splits an amount into n parts that sum exactly to the rounded
// amount. Every part starts at the floor share; the residue lands one step
// at a time on the earliest parts, and the last part absorbs any sub-step
// leftover.
func (p *PartialPlanner) SplitEven(amount decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, NewValidation("Number of parts must be at least 1.")
	}
	total := money.RoundHalfUp(money.ClampNonNegative(amount), p.Step)
	base := money.RoundDown(total.Div(decimal.NewFromInt(int64(n))), p.Step)
	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
	}
	residue := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	for i := 0; i < n && residue.GreaterThanOrEqual(p.Step); i++ {
		parts[i] = parts[i].Add(p.Step)
		residue = residue.Sub(p.Step)
	}
	if residue.Sign() != 0 {
		parts[n-1] = parts[n-1].Add(residue)
	}
	return parts, nil
}

// SplitHalfThenRest plans two installments: half now (rounded half-up), the
// remainder later. The two always sum to the rounded amount.
func (p *PartialPlanner) SplitHalfThenRest(amount decimal.Decimal) []decimal.Decimal {
	total := money.RoundHalfUp(money.ClampNonNegative(amount), p.Step)
	first := money.RoundHalfUp(total.Div(decimal.NewFromInt(2)), p.Step)
	return []decimal.Decimal{first, total.Sub(first)}
}

// Suggestions builds the quick-pick amounts for a document with the given
// remaining due. An already-settled document gets no suggestions.
func (p *PartialPlanner) Suggestions(remaining decimal.Decimal) []models.Suggestion {
	remaining = money.RoundHalfUp(money.ClampNonNegative(remaining), p.Step)
	if remaining.Sign() <= 0 {
		return nil
	}
	half := money.RoundHalfUp(remaining.Div(decimal.NewFromInt(2)), p.Step)
	third := money.RoundDown(remaining.Div(decimal.NewFromInt(3)), p.Step)
	out := []models.Suggestion{
		{Label: "Pay remaining", Amount: remaining, Note: "Settles the document in full."},
	}
	if half.Sign() > 0 && half.LessThan(remaining) {
		out = append(out, models.Suggestion{Label: "Pay 50%", Amount: half, Note: "Document stays partially paid."})
	}
	if third.Sign() > 0 && third.LessThan(remaining) {
		out = append(out, models.Suggestion{Label: "Pay ~33%", Amount: third, Note: "Document stays partially paid."})
	}
	return out
}

// MakeEnvelope plans installments for one document from a strategy name and
// previews the balance after the first one. Pure preview, nothing is written.
func (p *PartialPlanner) MakeEnvelope(documentID, strategy string, snap models.DocumentSnapshot, amount decimal.Decimal) (*models.EnvelopePlan, error) {
	remaining := RemainingDue(snap, p.Step)
	plan := &models.EnvelopePlan{
		DocumentID:    documentID,
		Strategy:      strategy,
		EnteredAmount: amount,
		Remaining:     remaining,
	}
	if remaining.Sign() <= 0 {
		plan.Warnings = append(plan.Warnings, "No open balance to allocate.")
		return p.finish(plan, snap), nil
	}

	name := strategy
	parts := 0
	if strings.HasPrefix(strategy, EnvelopeNParts+":") {
		name = EnvelopeNParts
		n, err := strconv.Atoi(strings.TrimPrefix(strategy, EnvelopeNParts+":"))
		if err != nil || n <= 0 {
			return nil, NewValidation(fmt.Sprintf("Invalid part count in strategy %q.", strategy))
		}
		parts = n
	}

	// An entered amount bounds every strategy; zero means plan over the
	// full remaining due.
	base := remaining
	if amount.Sign() > 0 {
		base = p.ClampToRemaining(amount, remaining)
		if base.LessThan(amount) {
			plan.Warnings = append(plan.Warnings, "Requested amount capped to the remaining due.")
		}
	}

	switch name {
	case EnvelopeCapToRemaining:
		if base.Sign() > 0 {
			plan.Parts = []models.PaymentEnvelope{{Sequence: 1, Amount: base}}
		} else {
			plan.Warnings = append(plan.Warnings, "Nothing to allocate.")
		}
	case EnvelopeHalfNow:
		split := p.SplitHalfThenRest(base)
		plan.Parts = []models.PaymentEnvelope{
			{Sequence: 1, Amount: split[0], Note: "Pay now."},
			{Sequence: 2, Amount: split[1], Note: "Pay later."},
		}
	case EnvelopeNParts:
		split, err := p.SplitEven(base, parts)
		if err != nil {
			return nil, err
		}
		plan.Parts = make([]models.PaymentEnvelope, len(split))
		for i, a := range split {
			plan.Parts[i] = models.PaymentEnvelope{Sequence: i + 1, Amount: a}
		}
	default:
		return nil, NewValidation(fmt.Sprintf("Unknown envelope strategy %q.", strategy))
	}
	return p.finish(plan, snap), nil
}

// finish fills the projection fields once the parts are decided.
func (p *PartialPlanner) finish(plan *models.EnvelopePlan, snap models.DocumentSnapshot) *models.EnvelopePlan {
	if len(plan.Parts) > 0 {
		plan.AllocatedNow = plan.Parts[0].Amount
	}
	plan.RemainingAfter = money.ClampNonNegative(plan.Remaining.Sub(plan.AllocatedNow))
	_, plan.ProjectedStatus = ProjectAfterPayment(snap, plan.AllocatedNow)
	plan.Suggestions = p.Suggestions(plan.Remaining)
	return plan
}
