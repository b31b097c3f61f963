package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/larkbyte/dialectdb/internal/errs"
)

// PostgreSQL SQLSTATE codes this backend distinguishes.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrUndefinedTable   = "42P01"
	pgErrInvalidCatalog   = "3D000"
	pgErrInvalidSchema    = "3F000"
	pgErrConnFailureClass = "08"
	pgErrAuthClass        = "28"
)

// mapError translates a pgx error into a *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindBackendUnavailable, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUndefinedTable, pgErrInvalidCatalog, pgErrInvalidSchema:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		}
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case pgErrConnFailureClass, pgErrAuthClass:
				return errs.Wrap(errs.ErrKindBackendUnavailable,
					fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
			}
		}
		return errs.Wrap(errs.ErrKindBackendUnavailable,
			fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindBackendUnavailable, msg, err)
}

// mapIterErr is mapError for rows.Err(), which is nil on clean iteration.
func mapIterErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return mapError(err, msg)
}
