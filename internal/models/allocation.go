package models

import (
	"github.com/shopspring/decimal"
)

// AllocationRow is the planned amount against one open document.
type AllocationRow struct {
	DocumentID string          `json:"document_id"`
	Allocated  decimal.Decimal `json:"allocated"`
	Remaining  decimal.Decimal `json:"remaining_after"`
	Locked     bool            `json:"locked"`
}

// AllocationPlan is the full result of spreading one amount over a set of
// open documents. Unallocated is whatever could not be placed.
type AllocationPlan struct {
	Rows        []AllocationRow `json:"rows"`
	Allocated   decimal.Decimal `json:"allocated_total"`
	Unallocated decimal.Decimal `json:"unallocated"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// PaymentEnvelope is a single planned installment inside an envelope plan.
type PaymentEnvelope struct {
	Sequence int             `json:"sequence"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// EnvelopePlan is a single-document payment preview: the schedule plus the
// balance and status the document would land on after the first installment.
type EnvelopePlan struct {
	DocumentID      string            `json:"document_id"`
	Strategy        string            `json:"strategy"`
	EnteredAmount   decimal.Decimal   `json:"entered_amount"`
	Remaining       decimal.Decimal   `json:"remaining_before"`
	AllocatedNow    decimal.Decimal   `json:"allocated_now"`
	RemainingAfter  decimal.Decimal   `json:"remaining_after"`
	ProjectedStatus PaymentStatus     `json:"projected_status"`
	Parts           []PaymentEnvelope `json:"parts"`
	Warnings        []string          `json:"warnings,omitempty"`
	Suggestions     []Suggestion      `json:"suggestions,omitempty"`
}

// Suggestion is one quick-pick payment amount for a document.
type Suggestion struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}
