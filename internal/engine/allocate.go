package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
	"payledger-backend/internal/money"
)

// Allocation strategies. Each is a deterministic ordering over candidates;
// proportional spreads by remaining-due weight instead.
const (
	StrategyOldestFirst      = "oldest_first"
	StrategyDueDate          = "due_date"
	StrategyBiggestRemaining = "biggest_remaining"
	StrategyProportional     = "proportional"
)

// residueCap bounds the top-up loop so bad data can never spin it forever.
const residueCap = 10000

// Candidate is one open document offered to the allocator.
type Candidate struct {
	DocumentID string
	Date       time.Time
	DueDate    *time.Time
	Remaining  decimal.Decimal
}

// PlanInput is a full allocation request: one amount, a strategy, the open
// documents, and optional per-document manual overrides. Overridden rows are
// locked at their clamped amount before the strategy runs.
type PlanInput struct {
	Amount     decimal.Decimal
	Strategy   string
	Step       decimal.Decimal
	Candidates []Candidate
	Overrides  map[string]decimal.Decimal
}

type allocRow struct {
	cand      Candidate
	allocated decimal.Decimal
	locked    bool
}

// Allocate spreads the requested amount over the candidates. The result is
// deterministic for a given input regardless of candidate order: ties inside
// a strategy break on document ID, and overrides apply in document-ID order.
func Allocate(in PlanInput) (*models.AllocationPlan, error) {
	step := money.StepOrDefault(in.Step)
	pool := money.RoundHalfUp(in.Amount, step)

	rows := make([]*allocRow, 0, len(in.Candidates))
	seen := make(map[string]bool, len(in.Candidates))
	for _, c := range in.Candidates {
		if seen[c.DocumentID] {
			return nil, NewValidation(fmt.Sprintf("Duplicate document %s in allocation set.", c.DocumentID))
		}
		seen[c.DocumentID] = true
		// Round the open balance down: a snapshot of 99.996 must never let
		// the allocator hand out more than 99.99.
		c.Remaining = money.RoundDown(money.ClampNonNegative(c.Remaining), step)
		rows = append(rows, &allocRow{cand: c})
	}
	for id := range in.Overrides {
		if !seen[id] {
			return nil, NewValidation(fmt.Sprintf("Override references unknown document %s.", id))
		}
	}

	plan := &models.AllocationPlan{}
	totalRemaining := decimal.Zero
	for _, r := range rows {
		totalRemaining = totalRemaining.Add(r.cand.Remaining)
	}

	switch {
	case pool.Sign() <= 0:
		plan.Warnings = append(plan.Warnings, "Nothing to allocate.")
	case totalRemaining.Sign() <= 0:
		plan.Warnings = append(plan.Warnings, "No open balance to allocate.")
		plan.Unallocated = pool
	default:
		requested := pool
		var err error
		pool, err = applyOverrides(rows, in.Overrides, pool, step)
		if err != nil {
			return nil, err
		}
		switch in.Strategy {
		case StrategyOldestFirst, StrategyDueDate, StrategyBiggestRemaining:
			pool = fillGreedy(rows, in.Strategy, pool, step)
		case StrategyProportional:
			pool = fillProportional(rows, pool, step)
		default:
			return nil, NewValidation(fmt.Sprintf("Unknown allocation strategy %q.", in.Strategy))
		}
		pool = topUpResidue(rows, in.Strategy, pool, step)
		if pool.Sign() > 0 && requested.GreaterThan(totalRemaining) {
			plan.Warnings = append(plan.Warnings,
				"Requested amount exceeds combined remaining; some amount left unallocated.")
		}
		if pool.Equal(requested) {
			plan.Warnings = append(plan.Warnings, "Nothing to allocate.")
		}
		plan.Unallocated = pool
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].cand.DocumentID < rows[j].cand.DocumentID })
	allocated := decimal.Zero
	for _, r := range rows {
		allocated = allocated.Add(r.allocated)
		plan.Rows = append(plan.Rows, models.AllocationRow{
			DocumentID: r.cand.DocumentID,
			Allocated:  r.allocated,
			Remaining:  r.cand.Remaining.Sub(r.allocated),
			Locked:     r.locked,
		})
	}
	plan.Allocated = allocated
	return plan, nil
}

// applyOverrides locks manually-set rows at their clamped, rounded-down
// amount and drains the pool. Keys apply in sorted order so map iteration
// never leaks into the result.
func applyOverrides(rows []*allocRow, overrides map[string]decimal.Decimal, pool, step decimal.Decimal) (decimal.Decimal, error) {
	if len(overrides) == 0 {
		return pool, nil
	}
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byID := make(map[string]*allocRow, len(rows))
	for _, r := range rows {
		byID[r.cand.DocumentID] = r
	}
	for _, id := range ids {
		want := overrides[id]
		if want.Sign() < 0 {
			return pool, NewValidation(fmt.Sprintf("Override for %s cannot be negative.", id))
		}
		r := byID[id]
		amt := money.RoundDown(decimal.Min(want, r.cand.Remaining, pool), step)
		r.allocated = amt
		r.locked = true
		pool = pool.Sub(amt)
	}
	return pool, nil
}

func strategyLess(strategy string, a, b Candidate) bool {
	switch strategy {
	case StrategyDueDate:
		ka, kb := effectiveDue(a), effectiveDue(b)
		if !ka.Equal(kb) {
			return ka.Before(kb)
		}
	case StrategyBiggestRemaining:
		if !a.Remaining.Equal(b.Remaining) {
			return a.Remaining.GreaterThan(b.Remaining)
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
	default: // oldest_first
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
	}
	return a.DocumentID < b.DocumentID
}

func effectiveDue(c Candidate) time.Time {
	if c.DueDate != nil {
		return *c.DueDate
	}
	return c.Date
}

// fillGreedy walks the unlocked rows in strategy order and gives each as much
// as its remaining allows before moving on.
func fillGreedy(rows []*allocRow, strategy string, pool, step decimal.Decimal) decimal.Decimal {
	order := unlocked(rows)
	sort.Slice(order, func(i, j int) bool { return strategyLess(strategy, order[i].cand, order[j].cand) })
	for _, r := range order {
		if pool.Sign() <= 0 {
			break
		}
		amt := money.RoundDown(decimal.Min(pool, r.cand.Remaining), step)
		if amt.Sign() <= 0 {
			continue
		}
		r.allocated = amt
		pool = pool.Sub(amt)
	}
	return pool
}

// fillProportional shares the pool by remaining-due weight, rounding each
// share down. When every unlocked row is already settled the pool stays
// untouched; when weights cannot be formed it falls back to an even split.
func fillProportional(rows []*allocRow, pool, step decimal.Decimal) decimal.Decimal {
	order := unlocked(rows)
	sort.Slice(order, func(i, j int) bool { return order[i].cand.DocumentID < order[j].cand.DocumentID })

	weightSum := decimal.Zero
	for _, r := range order {
		weightSum = weightSum.Add(r.cand.Remaining)
	}
	if weightSum.Sign() <= 0 {
		return pool
	}

	budget := decimal.Min(pool, weightSum)
	for _, r := range order {
		share := budget.Mul(r.cand.Remaining).Div(weightSum)
		amt := money.RoundDown(decimal.Min(share, r.cand.Remaining), step)
		if amt.Sign() <= 0 {
			continue
		}
		r.allocated = amt
		pool = pool.Sub(amt)
	}
	return pool
}

// topUpResidue distributes whatever rounding left behind, one step at a time,
// to rows that still have headroom. Greedy strategies top up in the same
// order they filled; proportional has no priority order, so it walks rows by
// document ID. Bounded so it always terminates.
func topUpResidue(rows []*allocRow, strategy string, pool, step decimal.Decimal) decimal.Decimal {
	order := unlocked(rows)
	if strategy == StrategyProportional {
		sort.Slice(order, func(i, j int) bool { return order[i].cand.DocumentID < order[j].cand.DocumentID })
	} else {
		sort.Slice(order, func(i, j int) bool { return strategyLess(strategy, order[i].cand, order[j].cand) })
	}
	for iter := 0; iter < residueCap; iter++ {
		if pool.LessThan(step) {
			break
		}
		advanced := false
		for _, r := range order {
			if pool.LessThan(step) {
				break
			}
			if r.allocated.Add(step).LessThanOrEqual(r.cand.Remaining) {
				r.allocated = r.allocated.Add(step)
				pool = pool.Sub(step)
				advanced = true
			}
		}
		if !advanced {
			break
		}
	}
	return pool
}

func unlocked(rows []*allocRow) []*allocRow {
	out := make([]*allocRow, 0, len(rows))
	for _, r := range rows {
		if !r.locked {
			out = append(out, r)
		}
	}
	return out
}
