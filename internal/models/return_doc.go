package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReturnRequest settles a return against one document: the document
// total is reduced by the return value, cash already paid is refunded up to
// the paid amount, and any remainder becomes a credit memo on the ledger.
type CreateReturnRequest struct {
	DocumentID  string          `json:"document_id"`
	ReturnValue decimal.Decimal `json:"return_value"`
	TxDate      *time.Time      `json:"tx_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   *int64          `json:"created_by,omitempty"`
}

// ReturnResult reports how a return value was settled.
type ReturnResult struct {
	DocumentID       string          `json:"document_id"`
	ReturnValue      decimal.Decimal `json:"return_value"`
	BalanceReduction decimal.Decimal `json:"balance_reduction"`
	CashRefund       decimal.Decimal `json:"cash_refund"`
	CreditMemo       decimal.Decimal `json:"credit_memo"`
	RefundPaymentID  *int64          `json:"refund_payment_id,omitempty"`
	CreditTxID       *int64          `json:"credit_tx_id,omitempty"`
}
