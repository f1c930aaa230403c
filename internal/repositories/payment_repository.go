package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Record inserts one tender row. The rollup trigger refreshes the parent
// document's paid_amount and payment_status.
func (r *PaymentRepository) Record(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payDate := time.Now()
	if req.Date != nil {
		payDate = *req.Date
	}

	p := &models.Payment{
		DocumentID:          req.DocumentID,
		Date:                payDate,
		Amount:              req.Amount,
		Method:              req.Method,
		BankAccountID:       req.BankAccountID,
		VendorBankAccountID: req.VendorBankAccountID,
		InstrumentType:      req.InstrumentType,
		InstrumentNo:        req.InstrumentNo,
		InstrumentDate:      req.InstrumentDate,
		DepositedDate:       req.DepositedDate,
		ClearedDate:         req.ClearedDate,
		ClearingState:       req.ClearingState,
		RefNo:               req.RefNo,
		Notes:               req.Notes,
		CreatedBy:           req.CreatedBy,
	}

	err := r.DB.QueryRow(ctx,
		`INSERT INTO payments(
            document_id, pay_date, amount, method,
            bank_account_id, vendor_bank_account_id,
            instrument_type, instrument_no, instrument_date,
            deposited_date, cleared_date, clearing_state,
            ref_no, notes, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
         RETURNING id, created_at`,
		p.DocumentID, p.Date, p.Amount, p.Method,
		p.BankAccountID, p.VendorBankAccountID,
		p.InstrumentType, p.InstrumentNo, p.InstrumentDate,
		p.DepositedDate, p.ClearedDate, p.ClearingState,
		p.RefNo, p.Notes, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, mapIntegrityError(err, "record payment")
	}
	return p, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, document_id, pay_date, amount, method,
                bank_account_id, vendor_bank_account_id,
                instrument_type, instrument_no, instrument_date,
                deposited_date, cleared_date, clearing_state,
                ref_no, notes, created_by, created_at
         FROM payments WHERE id=$1`, id)

	var p models.Payment
	err := row.Scan(&p.ID, &p.DocumentID, &p.Date, &p.Amount, &p.Method,
		&p.BankAccountID, &p.VendorBankAccountID,
		&p.InstrumentType, &p.InstrumentNo, &p.InstrumentDate,
		&p.DepositedDate, &p.ClearedDate, &p.ClearingState,
		&p.RefNo, &p.Notes, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.NewValidation(fmt.Sprintf("Payment %d not found.", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListByDocument returns every tender row against a document, oldest first.
func (r *PaymentRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, document_id, pay_date, amount, method,
                bank_account_id, vendor_bank_account_id,
                instrument_type, instrument_no, instrument_date,
                deposited_date, cleared_date, clearing_state,
                ref_no, notes, created_by, created_at
         FROM payments WHERE document_id=$1
         ORDER BY pay_date, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Date, &p.Amount, &p.Method,
			&p.BankAccountID, &p.VendorBankAccountID,
			&p.InstrumentType, &p.InstrumentNo, &p.InstrumentDate,
			&p.DepositedDate, &p.ClearedDate, &p.ClearingState,
			&p.RefNo, &p.Notes, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// UpdateClearingState moves a payment to a new clearing state and stamps the
// relevant dates.
func (r *PaymentRepository) UpdateClearingState(ctx context.Context, id int64, req *models.UpdateClearingStateRequest) (*models.Payment, error) {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments
         SET clearing_state = $2,
             cleared_date = COALESCE($3, cleared_date),
             deposited_date = COALESCE($4, deposited_date),
             instrument_date = COALESCE($5, instrument_date),
             notes = COALESCE($6, notes),
             ref_no = COALESCE($7, ref_no)
         WHERE id = $1`,
		id, req.ClearingState, req.ClearedDate, req.DepositedDate,
		req.InstrumentDate, req.Notes, req.RefNo)
	if err != nil {
		return nil, mapIntegrityError(err, "update clearing state")
	}
	return r.Get(ctx, id)
}
