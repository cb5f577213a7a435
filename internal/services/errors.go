package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors returned by Ledger operations.
var (
	// ErrDuplicate: the write would duplicate a unique value
	// (Company.CUI, or an invoice (company, series, number) triple).
	ErrDuplicate = errors.New("duplicate value for unique field")
	// ErrForeignKey: a reference does not resolve to an existing row,
	// or a delete is blocked by rows still referencing the target.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrRequired: a required field with no default is missing.
	ErrRequired = errors.New("required field missing")
	// ErrNotFound: the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
)

// Postgres error codes (class 23, integrity constraint violation).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// classify maps storage-engine errors onto the sentinel errors above so
// callers never have to know which driver is underneath.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		case pgNotNullViolation:
			return ErrRequired
		}
		return err
	}
	// sqlite reports constraint failures as plain text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrForeignKey
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return ErrRequired
	}
	return err
}
