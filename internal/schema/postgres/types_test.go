package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/larkbyte/dialectdb/internal/dialect"
	"github.com/larkbyte/dialectdb/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestAbstractType(t *testing.T) {
	tests := []struct {
		dataType string
		udtName  string
		serial   bool
		want     dialect.ColumnType
	}{
		{"integer", "int4", true, dialect.TypePK},
		{"integer", "int4", false, dialect.TypeInteger},
		{"bigint", "int8", true, dialect.TypeBigPK},
		{"character varying", "varchar", false, dialect.TypeString},
		{"uuid", "uuid", false, dialect.TypeString},
		{"timestamp with time zone", "timestamptz", false, dialect.TypeTimestamp},
		{"money", "money", false, dialect.TypeMoney},
		{"jsonb", "jsonb", false, dialect.TypeJSON},
		{"bytea", "bytea", false, dialect.TypeBinary},
		{"ARRAY", "_int4", false, dialect.TypeString},
		{"USER-DEFINED", "mood", false, dialect.TypeString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, abstractType(tt.dataType, tt.udtName, tt.serial),
			"%s/%s", tt.dataType, tt.udtName)
	}
}

func TestNativeName(t *testing.T) {
	assert.Equal(t, "integer", nativeName("integer", "int4"))
	assert.Equal(t, "int4[]", nativeName("ARRAY", "_int4"))
	assert.Equal(t, "mood", nativeName("USER-DEFINED", "mood"))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"nil stays nil", nil, func(err error) bool { return err == nil }},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, errs.IsNotFound},
		{"invalid catalog", &pgconn.PgError{Code: "3D000"}, errs.IsNotFound},
		{"connection failure class", &pgconn.PgError{Code: "08006"}, errs.IsBackendUnavailable},
		{"auth class", &pgconn.PgError{Code: "28P01"}, errs.IsBackendUnavailable},
		{"other server error", &pgconn.PgError{Code: "40001"}, errs.IsBackendUnavailable},
		{"no rows", pgx.ErrNoRows, errs.IsNotFound},
		{"context canceled", context.Canceled, errs.IsBackendUnavailable},
		{"plain error", errors.New("boom"), errs.IsBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want(mapError(tt.err, "op failed")))
		})
	}
}
