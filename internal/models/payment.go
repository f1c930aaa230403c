package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the canonical tender method set.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodCard         PaymentMethod = "Card"
	MethodCheque       PaymentMethod = "Cheque"
	MethodCashDeposit  PaymentMethod = "Cash Deposit"
	MethodOther        PaymentMethod = "Other"
)

// InstrumentType values allowed on a payment row.
type InstrumentType string

const (
	InstrumentOnline      InstrumentType = "online"
	InstrumentCrossCheque InstrumentType = "cross_cheque"
	InstrumentCashDeposit InstrumentType = "cash_deposit"
	InstrumentPayOrder    InstrumentType = "pay_order"
	InstrumentOther       InstrumentType = "other"
)

// ClearingState lifecycle: posted/pending rows may move to cleared or
// bounced. Purchase header rollups react to cleared rows only.
type ClearingState string

const (
	ClearingPosted  ClearingState = "posted"
	ClearingPending ClearingState = "pending"
	ClearingCleared ClearingState = "cleared"
	ClearingBounced ClearingState = "bounced"
)

// Payment is one tender row against exactly one document. Amount is signed:
// positive = receipt/payout, negative = refund/reversal.
type Payment struct {
	ID                   int64           `json:"payment_id"`
	DocumentID           string          `json:"document_id"`
	Date                 time.Time       `json:"date"`
	Amount               decimal.Decimal `json:"amount"`
	Method               PaymentMethod   `json:"method"`
	BankAccountID        *int64          `json:"bank_account_id,omitempty"`
	VendorBankAccountID  *int64          `json:"vendor_bank_account_id,omitempty"`
	InstrumentType       InstrumentType  `json:"instrument_type"`
	InstrumentNo         string          `json:"instrument_no,omitempty"`
	InstrumentDate       *time.Time      `json:"instrument_date,omitempty"`
	DepositedDate        *time.Time      `json:"deposited_date,omitempty"`
	ClearedDate          *time.Time      `json:"cleared_date,omitempty"`
	ClearingState        ClearingState   `json:"clearing_state"`
	RefNo                string          `json:"ref_no,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	CreatedBy            *int64          `json:"created_by,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CreatePaymentRequest is the write payload for one tender row.
// Instrument type and clearing state default per method when omitted.
type CreatePaymentRequest struct {
	DocumentID          string          `json:"document_id"`
	Amount              decimal.Decimal `json:"amount"`
	Method              PaymentMethod   `json:"method"`
	Date                *time.Time      `json:"date,omitempty"`
	BankAccountID       *int64          `json:"bank_account_id,omitempty"`
	VendorBankAccountID *int64          `json:"vendor_bank_account_id,omitempty"`
	InstrumentType      InstrumentType  `json:"instrument_type,omitempty"`
	InstrumentNo        string          `json:"instrument_no,omitempty"`
	InstrumentDate      *time.Time      `json:"instrument_date,omitempty"`
	DepositedDate       *time.Time      `json:"deposited_date,omitempty"`
	ClearedDate         *time.Time      `json:"cleared_date,omitempty"`
	ClearingState       ClearingState   `json:"clearing_state,omitempty"`
	RefNo               string          `json:"ref_no,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedBy           *int64          `json:"created_by,omitempty"`
}

// UpdateClearingStateRequest moves a payment through its clearing lifecycle.
type UpdateClearingStateRequest struct {
	ClearingState  ClearingState `json:"clearing_state"`
	ClearedDate    *time.Time    `json:"cleared_date,omitempty"`
	DepositedDate  *time.Time    `json:"deposited_date,omitempty"`
	InstrumentDate *time.Time    `json:"instrument_date,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	RefNo          *string       `json:"ref_no,omitempty"`
}
