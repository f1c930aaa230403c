package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"payledger-backend/internal/models"
)

// Storage contracts the services depend on. The pgx repositories implement
// them; tests substitute in-memory fakes.

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	GetSnapshot(ctx context.Context, id string) (*models.DocumentSnapshot, error)
	ListOpen(ctx context.Context, kind models.DocumentKind, counterpartyID int64) ([]models.OpenDocument, error)
	ReduceTotal(ctx context.Context, id string, by decimal.Decimal) error
}

type PaymentStore interface {
	Record(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, id int64) (*models.Payment, error)
	ListByDocument(ctx context.Context, documentID string) ([]models.Payment, error)
	UpdateClearingState(ctx context.Context, id int64, req *models.UpdateClearingStateRequest) (*models.Payment, error)
}

type AdvanceStore interface {
	Balance(ctx context.Context, counterpartyID int64, kind models.DocumentKind, asOf *time.Time) (decimal.Decimal, error)
	List(ctx context.Context, counterpartyID int64, kind models.DocumentKind) ([]models.AdvanceEntry, error)
	Grant(ctx context.Context, e *models.AdvanceEntry) error
	Apply(ctx context.Context, e *models.AdvanceEntry) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
