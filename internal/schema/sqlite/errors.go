package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/larkbyte/dialectdb/internal/errs"
)

// mapError translates modernc sqlite errors into *errs.Error. The driver
// exposes no stable typed errors for catalog misses, so "no such table" is
// matched on the message, same as every sqlite tool ends up doing.
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

	text := err.Error()
	if strings.Contains(text, "no such table") || strings.Contains(text, "no such index") {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
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
