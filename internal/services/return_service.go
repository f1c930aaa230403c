package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/cache"
	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

type ReturnService struct {
	Docs     DocumentStore
	Payments PaymentStore
	Advances AdvanceStore
	Step     decimal.Decimal
}

func NewReturnService(docs DocumentStore, payments PaymentStore, advances AdvanceStore, step decimal.Decimal) *ReturnService {
	return &ReturnService{Docs: docs, Payments: payments, Advances: advances, Step: step}
}

// Settle applies a return against a document. Cash already collected comes
// back as a negative cash row, the outstanding total shrinks by what it can
// absorb of the remainder, and only the overflow posts to the counterparty's
// ledger as return credit. The three parts always sum to the return value.
func (s *ReturnService) Settle(ctx context.Context, req *models.CreateReturnRequest) (*models.ReturnResult, error) {
	snap, err := s.Docs.GetSnapshot(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	settlement, err := engine.SettleReturn(*snap, req.ReturnValue, s.Step)
	if err != nil {
		return nil, err
	}

	txDate := time.Now()
	if req.TxDate != nil {
		txDate = *req.TxDate
	}

	if err := s.Docs.ReduceTotal(ctx, req.DocumentID, settlement.BalanceReduction); err != nil {
		return nil, err
	}

	result := &models.ReturnResult{
		DocumentID:       req.DocumentID,
		ReturnValue:      settlement.CashRefund.Add(settlement.BalanceReduction).Add(settlement.CreditMemo),
		BalanceReduction: settlement.BalanceReduction,
		CashRefund:       settlement.CashRefund,
		CreditMemo:       settlement.CreditMemo,
	}

	if settlement.CashRefund.Sign() > 0 {
		refund := &models.CreatePaymentRequest{
			DocumentID: req.DocumentID,
			Amount:     settlement.CashRefund.Neg(),
			Method:     models.MethodCash,
			Date:       &txDate,
			Notes:      refundNote(req.Notes),
			CreatedBy:  req.CreatedBy,
		}
		if err := engine.NormalizeTender(snap.Kind, refund); err != nil {
			return nil, err
		}
		p, err := s.Payments.Record(ctx, refund)
		if err != nil {
			return nil, err
		}
		result.RefundPaymentID = &p.ID
	}

	if settlement.CreditMemo.Sign() > 0 {
		docID := req.DocumentID
		entry := &models.AdvanceEntry{
			CounterpartyID: snap.CounterpartyID,
			Kind:           snap.Kind,
			TxDate:         txDate,
			Amount:         settlement.CreditMemo,
			SourceType:     models.AdvanceReturnCredit,
			SourceID:       &docID,
			Notes:          req.Notes,
			CreatedBy:      req.CreatedBy,
		}
		if err := s.Advances.Grant(ctx, entry); err != nil {
			return nil, err
		}
		result.CreditTxID = &entry.TxID
		cache.InvalidateBalance(ctx, snap.Kind, snap.CounterpartyID)
	}

	cache.InvalidateOpenDocuments(ctx, snap.Kind, snap.CounterpartyID)
	return result, nil
}

func refundNote(notes string) string {
	if notes == "" {
		return "Refund for return"
	}
	return fmt.Sprintf("Refund for return: %s", notes)
}
