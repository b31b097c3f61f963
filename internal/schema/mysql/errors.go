package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/larkbyte/dialectdb/internal/errs"
)

// MySQL server error numbers this backend distinguishes.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	erDBAccessDenied = 1044
	erAccessDenied   = 1045
	erBadDB          = 1049
	erNoSuchTable    = 1146
	erUnknownTable   = 1109
)

// mapError translates go-sql-driver errors into *errs.Error. Missing tables
// and databases map to NotFound; everything else the backend cannot recover
// from maps to BackendUnavailable.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindBackendUnavailable, msg, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case erNoSuchTable, erUnknownTable, erBadDB:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case erDBAccessDenied, erAccessDenied:
			return errs.Wrap(errs.ErrKindBackendUnavailable,
				fmt.Sprintf("%s: access denied", msg), err)
		}
		return errs.Wrap(errs.ErrKindBackendUnavailable,
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindBackendUnavailable, msg, err)
}
