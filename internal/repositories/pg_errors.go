package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"payledger-backend/internal/engine"
)

// mapIntegrityError converts PostgreSQL constraint violations into the typed
// conflict error so callers can distinguish them from transport failures.
func mapIntegrityError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return engine.NewConflict(fmt.Sprintf("%s: duplicate record", op))
		case "23503": // foreign_key_violation
			return engine.NewConflict(fmt.Sprintf("%s: referenced record does not exist", op))
		case "23514": // check_violation
			return engine.NewConflict(fmt.Sprintf("%s: %s", op, pgErr.Message))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mapOverdraw(counterpartyID int64) error {
	return engine.NewConflict(fmt.Sprintf("advance ledger for counterparty %d would go negative", counterpartyID))
}
