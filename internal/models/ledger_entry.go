package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceSourceType tags how an advance ledger entry originated.
// Grants (deposit, return_credit) carry positive amounts; applications
// (applied_to_sale, applied_to_purchase) carry negative amounts.
type AdvanceSourceType string

const (
	AdvanceDeposit           AdvanceSourceType = "deposit"
	AdvanceReturnCredit      AdvanceSourceType = "return_credit"
	AdvanceAppliedToSale     AdvanceSourceType = "applied_to_sale"
	AdvanceAppliedToPurchase AdvanceSourceType = "applied_to_purchase"
)

// AdvanceEntry is one immutable row of a counterparty's advance ledger.
type AdvanceEntry struct {
	TxID           int64             `json:"tx_id"`
	CounterpartyID int64             `json:"counterparty_id"`
	Kind           DocumentKind      `json:"kind"`
	TxDate         time.Time         `json:"tx_date"`
	Amount         decimal.Decimal   `json:"amount"`
	SourceType     AdvanceSourceType `json:"source_type"`
	SourceID       *string           `json:"source_id,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedBy      *int64            `json:"created_by,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CreateAdvanceRequest grants credit (deposit or return credit) to a
// counterparty's ledger.
type CreateAdvanceRequest struct {
	CounterpartyID int64             `json:"counterparty_id"`
	Kind           DocumentKind      `json:"kind"`
	Amount         decimal.Decimal   `json:"amount"`
	SourceType     AdvanceSourceType `json:"source_type,omitempty"`
	SourceID       *string           `json:"source_id,omitempty"`
	TxDate         *time.Time        `json:"tx_date,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedBy      *int64            `json:"created_by,omitempty"`
}

// ApplyAdvanceRequest consumes available credit against one document.
type ApplyAdvanceRequest struct {
	DocumentID string          `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
	TxDate     *time.Time      `json:"tx_date,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  *int64          `json:"created_by,omitempty"`
}

// AdvanceBalance is the point-in-time credit position of a counterparty.
type AdvanceBalance struct {
	CounterpartyID int64           `json:"counterparty_id"`
	Kind           DocumentKind    `json:"kind"`
	Balance        decimal.Decimal `json:"balance"`
	AsOf           *time.Time      `json:"as_of,omitempty"`
}
