package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"payledger-backend/internal/engine"
	"payledger-backend/internal/models"
)

type DocumentRepository struct {
	DB *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO documents(id, kind, counterparty_id, doc_date, due_date, total_amount, notes)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING created_at`,
		doc.ID, doc.Kind, doc.CounterpartyID, doc.Date, doc.DueDate, doc.TotalAmount, doc.Notes,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return mapIntegrityError(err, "create document")
	}
	doc.PaymentStatus = models.StatusUnpaid
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, kind, counterparty_id, doc_date, due_date, total_amount,
                paid_amount, advance_payment_applied, payment_status, notes, created_at
         FROM documents WHERE id=$1`, id)

	var doc models.Document
	err := row.Scan(&doc.ID, &doc.Kind, &doc.CounterpartyID, &doc.Date, &doc.DueDate,
		&doc.TotalAmount, &doc.PaidAmount, &doc.AdvanceApplied, &doc.PaymentStatus,
		&doc.Notes, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.NewValidation(fmt.Sprintf("Document %s not found.", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// GetSnapshot reads the allocation view of one document. For purchases,
// paid_amount already reflects cleared payments only via the rollup trigger.
func (r *DocumentRepository) GetSnapshot(ctx context.Context, id string) (*models.DocumentSnapshot, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, kind, counterparty_id, total_amount, paid_amount,
                advance_payment_applied, doc_date, due_date
         FROM documents WHERE id=$1`, id)

	var snap models.DocumentSnapshot
	err := row.Scan(&snap.DocumentID, &snap.Kind, &snap.CounterpartyID, &snap.TotalAmount,
		&snap.PaidAmount, &snap.AdvanceApplied, &snap.Date, &snap.DueDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.NewValidation(fmt.Sprintf("Document %s not found.", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get document snapshot: %w", err)
	}
	return &snap, nil
}

// ListOpen returns every unsettled document of a kind for a counterparty,
// oldest first.
func (r *DocumentRepository) ListOpen(ctx context.Context, kind models.DocumentKind, counterpartyID int64) ([]models.OpenDocument, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, doc_date, due_date,
                GREATEST(total_amount - paid_amount - advance_payment_applied, 0)
         FROM documents
         WHERE kind=$1 AND counterparty_id=$2 AND payment_status <> 'paid'
         ORDER BY doc_date, id`, kind, counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("list open documents: %w", err)
	}
	defer rows.Close()

	var docs []models.OpenDocument
	for rows.Next() {
		var d models.OpenDocument
		if err := rows.Scan(&d.DocumentID, &d.Date, &d.DueDate, &d.RemainingDue); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ReduceTotal shrinks the document total during a return settlement and lets
// the rollup trigger recompute the status.
func (r *DocumentRepository) ReduceTotal(ctx context.Context, id string, by decimal.Decimal) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE documents
         SET total_amount = total_amount - $2,
             payment_status = CASE
                 WHEN paid_amount + advance_payment_applied <= 0 THEN 'unpaid'
                 WHEN paid_amount + advance_payment_applied >= total_amount - $2 THEN 'paid'
                 ELSE 'partial'
             END
         WHERE id=$1 AND total_amount >= $2`, id, by)
	if err != nil {
		return mapIntegrityError(err, "reduce document total")
	}
	if tag.RowsAffected() == 0 {
		return engine.NewConflict(fmt.Sprintf("reduce document total: document %s missing or total too small", id))
	}
	return nil
}
