package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
)

type AdvanceRepository struct {
	DB *pgxpool.Pool
}

func NewAdvanceRepository(db *pgxpool.Pool) *AdvanceRepository {
	return &AdvanceRepository{DB: db}
}

// Balance returns the ledger sum for a counterparty and kind, optionally as
// of a date (inclusive).
func (r *AdvanceRepository) Balance(ctx context.Context, counterpartyID int64, kind models.DocumentKind, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM counterparty_advances
		WHERE counterparty_id = $1 AND kind = $2
	`
	args := []interface{}{counterpartyID, kind}
	if asOf != nil {
		query += " AND tx_date <= $3"
		args = append(args, *asOf)
	}

	var balance decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("advance balance: %w", err)
	}
	return balance, nil
}

// List returns the full ledger for a counterparty and kind in posting order.
func (r *AdvanceRepository) List(ctx context.Context, counterpartyID int64, kind models.DocumentKind) ([]models.AdvanceEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT tx_id, counterparty_id, kind, tx_date, amount, source_type,
                source_id, notes, created_by, created_at
         FROM counterparty_advances
         WHERE counterparty_id = $1 AND kind = $2
         ORDER BY tx_date, tx_id`, counterpartyID, kind)
	if err != nil {
		return nil, fmt.Errorf("list advances: %w", err)
	}
	defer rows.Close()

	var entries []models.AdvanceEntry
	for rows.Next() {
		var e models.AdvanceEntry
		if err := rows.Scan(&e.TxID, &e.CounterpartyID, &e.Kind, &e.TxDate, &e.Amount,
			&e.SourceType, &e.SourceID, &e.Notes, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Grant inserts a positive ledger entry (deposit or return credit).
func (r *AdvanceRepository) Grant(ctx context.Context, e *models.AdvanceEntry) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO counterparty_advances(
            counterparty_id, kind, tx_date, amount, source_type, source_id, notes, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING tx_id, created_at`,
		e.CounterpartyID, e.Kind, e.TxDate, e.Amount, e.SourceType, e.SourceID, e.Notes, e.CreatedBy,
	).Scan(&e.TxID, &e.CreatedAt)
	if err != nil {
		return mapIntegrityError(err, "grant advance")
	}
	return nil
}

// Apply consumes credit against a document inside one transaction. The
// counterparty row is locked so concurrent applications serialize, and the
// balance is re-checked under the lock before the negative entry posts.
func (r *AdvanceRepository) Apply(ctx context.Context, e *models.AdvanceEntry) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("apply advance: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM counterparties WHERE id = $1 FOR UPDATE`,
		e.CounterpartyID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("apply advance: lock counterparty: %w", err)
	}

	var balance decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
         FROM counterparty_advances
         WHERE counterparty_id = $1 AND kind = $2`,
		e.CounterpartyID, e.Kind).Scan(&balance)
	if err != nil {
		return fmt.Errorf("apply advance: balance: %w", err)
	}
	if balance.Add(e.Amount).Sign() < 0 {
		return mapOverdraw(e.CounterpartyID)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO counterparty_advances(
            counterparty_id, kind, tx_date, amount, source_type, source_id, notes, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING tx_id, created_at`,
		e.CounterpartyID, e.Kind, e.TxDate, e.Amount, e.SourceType, e.SourceID, e.Notes, e.CreatedBy,
	).Scan(&e.TxID, &e.CreatedAt)
	if err != nil {
		return mapIntegrityError(err, "apply advance")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("apply advance: commit: %w", err)
	}
	return nil
}
