package engine

import (
	"fmt"

	"payledger-backend/internal/models"
)

// DefaultClearingState picks the initial clearing state for a method:
// deferred instruments start pending, everything else posts immediately.
func DefaultClearingState(method models.PaymentMethod) models.ClearingState {
	switch method {
	case models.MethodCheque, models.MethodCashDeposit:
		return models.ClearingPending
	default:
		return models.ClearingPosted
	}
}

// defaultInstrumentType maps a method to its instrument type.
func defaultInstrumentType(method models.PaymentMethod) models.InstrumentType {
	switch method {
	case models.MethodBankTransfer:
		return models.InstrumentOnline
	case models.MethodCheque:
		return models.InstrumentCrossCheque
	case models.MethodCashDeposit:
		return models.InstrumentCashDeposit
	default:
		return models.InstrumentOther
	}
}

// NormalizeTender validates one tender row against its method's rules and
// fills method-derived defaults (instrument type, clearing state) in place.
// Cash may carry a signed amount on either document kind; purchases also
// accept bank transfer and cheque refunds, since vendors send money back
// over those rails.
func NormalizeTender(kind models.DocumentKind, req *models.CreatePaymentRequest) error {
	switch req.Method {
	case models.MethodCash, models.MethodBankTransfer, models.MethodCard,
		models.MethodCheque, models.MethodCashDeposit, models.MethodOther:
	default:
		return NewValidation(fmt.Sprintf("Unknown payment method %q.", req.Method))
	}

	if req.Amount.IsZero() {
		return NewValidation("Enter a non-zero payment amount.")
	}

	switch req.Method {
	case models.MethodCash:
		if req.BankAccountID != nil || req.VendorBankAccountID != nil {
			return NewValidation("Cash payments cannot reference a bank account.")
		}
		req.InstrumentType = models.InstrumentOther
	case models.MethodBankTransfer, models.MethodCheque, models.MethodCashDeposit:
		refund := req.Amount.Sign() < 0
		if refund && (kind != models.DocumentKindPurchase || req.Method == models.MethodCashDeposit) {
			return NewValidation(fmt.Sprintf("%s payments must be positive.", req.Method))
		}
		// Vendor refunds may omit the bank account. Flip this branch if the
		// policy is ever settled the other way.
		if !refund && req.BankAccountID == nil && req.VendorBankAccountID == nil {
			return NewValidation(fmt.Sprintf("%s payments require a bank account.", req.Method))
		}
		if req.InstrumentNo == "" {
			return NewValidation(fmt.Sprintf("%s payments require an instrument number.", req.Method))
		}
		if req.InstrumentType == "" {
			req.InstrumentType = defaultInstrumentType(req.Method)
		}
	case models.MethodCard, models.MethodOther:
		if req.Amount.Sign() < 0 {
			return NewValidation(fmt.Sprintf("%s payments must be positive.", req.Method))
		}
		if req.InstrumentType == "" {
			req.InstrumentType = models.InstrumentOther
		}
	}

	if req.ClearingState == "" {
		req.ClearingState = DefaultClearingState(req.Method)
	}
	if err := validateClearingValue(req.ClearingState); err != nil {
		return err
	}
	return nil
}

// ValidateTenderBatch normalizes every row and rejects batches that mix
// receipts and refunds, which would make the applied total ambiguous.
func ValidateTenderBatch(kind models.DocumentKind, reqs []*models.CreatePaymentRequest) error {
	if len(reqs) == 0 {
		return NewValidation("At least one payment row is required.")
	}
	pos, neg := false, false
	for i, r := range reqs {
		if err := NormalizeTender(kind, r); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		switch {
		case r.Amount.Sign() > 0:
			pos = true
		case r.Amount.Sign() < 0:
			neg = true
		}
	}
	if pos && neg {
		return NewValidation("A payment batch cannot mix receipts and refunds.")
	}
	return nil
}

func validateClearingValue(s models.ClearingState) error {
	switch s {
	case models.ClearingPosted, models.ClearingPending, models.ClearingCleared, models.ClearingBounced:
		return nil
	}
	return NewValidation(fmt.Sprintf("Unknown clearing state %q.", s))
}

// ValidateClearingTransition enforces the clearing lifecycle: posted and
// pending rows may move to cleared or bounced; cleared and bounced are
// terminal.
func ValidateClearingTransition(from, to models.ClearingState) error {
	if err := validateClearingValue(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	switch from {
	case models.ClearingPosted, models.ClearingPending:
		if to == models.ClearingCleared || to == models.ClearingBounced {
			return nil
		}
	}
	return NewValidation(fmt.Sprintf("Cannot move a %s payment to %s.", from, to))
}
