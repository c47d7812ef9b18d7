package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// constraintErrors maps a constraint name to the sentinel returned for it.
type constraintErrors map[string]error

// mapPQError translates constraint violations. Unknown codes are wrapped unchanged.
func mapPQError(err error, byConstraint constraintErrors, fallbackFK error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if mapped, ok := byConstraint[pqErr.Constraint]; ok {
		return mapped
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		if fallbackFK != nil {
			return fallbackFK
		}
		return ErrReferenceInvalid
	case pqUniqueViolation, pqCheckViolation:
		return fmt.Errorf("database constraint %s violated: %w", pqErr.Constraint, err)
	}
	return fmt.Errorf("database error (code %s): %w", pqErr.Code, err)
}
