package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes receivable (sale) from payable (purchase)
// documents. Purchases roll up cleared payments only.
type DocumentKind string

const (
	DocumentKindSale     DocumentKind = "sale"
	DocumentKindPurchase DocumentKind = "purchase"
)

// PaymentStatus is derived from paid vs total, never entered as free text.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// Document is a sales or purchase header. paid_amount and
// advance_payment_applied are maintained by storage-side rollup triggers;
// the engine only reads them.
type Document struct {
	ID             string          `json:"document_id"`
	Kind           DocumentKind    `json:"kind"`
	CounterpartyID int64           `json:"counterparty_id"`
	Date           time.Time       `json:"date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	AdvanceApplied decimal.Decimal `json:"advance_payment_applied"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DocumentSnapshot is the read contract the allocation core consumes.
// For purchases PaidAmount is the cleared-only sum.
type DocumentSnapshot struct {
	DocumentID     string          `json:"document_id"`
	Kind           DocumentKind    `json:"kind"`
	CounterpartyID int64           `json:"counterparty_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	AdvanceApplied decimal.Decimal `json:"advance_payment_applied"`
	Date           time.Time       `json:"date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
}

// OpenDocument is one multi-allocation candidate.
type OpenDocument struct {
	DocumentID   string          `json:"document_id"`
	Date         time.Time       `json:"date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
}
