package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNativeType(t *testing.T) {
	tests := []struct {
		dialect Dialect
		typ     ColumnType
		want    string
	}{
		{MySQL, TypePK, "int(11) NOT NULL AUTO_INCREMENT PRIMARY KEY"},
		{MySQL, TypeBoolean, "tinyint(1)"},
		{MySQL, TypeJSON, "json"},
		{Postgres, TypePK, "serial NOT NULL PRIMARY KEY"},
		{Postgres, TypeBinary, "bytea"},
		{Postgres, TypeJSON, "jsonb"},
		{SQLite, TypePK, "integer PRIMARY KEY AUTOINCREMENT NOT NULL"},
		{Oracle, TypeString, "VARCHAR2(255)"},
		{Oracle, TypeText, "CLOB"},
		{SQLServer, TypeBoolean, "bit"},
		{SQLServer, TypeText, "nvarchar(max)"},
		{Generic, TypeMoney, "decimal(19,4)"},
		// Unknown dialects use the generic mapping.
		{Other, TypeInteger, "integer"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String()+"/"+string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, NativeType(tt.dialect, tt.typ))
		})
	}
}

func TestNativeTypePassthrough(t *testing.T) {
	// A raw native type not in the abstract enumeration passes through, so
	// callers can mix abstract and engine-specific declarations.
	assert.Equal(t, "varchar(64)", NativeType(MySQL, ColumnType("varchar(64)")))
}

func TestEveryDialectMapsEveryAbstractType(t *testing.T) {
	all := []ColumnType{
		TypePK, TypeBigPK, TypeChar, TypeString, TypeText,
		TypeTinyInt, TypeSmallInt, TypeInteger, TypeBigInt,
		TypeFloat, TypeDouble, TypeDecimal,
		TypeDateTime, TypeTimestamp, TypeTime, TypeDate,
		TypeBinary, TypeBoolean, TypeMoney, TypeJSON,
	}
	tables := map[string]map[ColumnType]string{
		"mysql":     mysqlTypes,
		"sqlite":    sqliteTypes,
		"postgres":  postgresTypes,
		"oracle":    oracleTypes,
		"sqlserver": sqlserverTypes,
		"db":        genericTypes,
	}
	for name, table := range tables {
		for _, typ := range all {
			assert.Contains(t, table, typ, "dialect %s leaves abstract type %s unmapped", name, typ)
		}
	}
}

func TestBindTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  BindType
	}{
		{"nil", nil, BindNull},
		{"bool", true, BindBool},
		{"int", 42, BindInt},
		{"int64", int64(42), BindInt},
		{"uint8", uint8(7), BindInt},
		{"float64", 3.14, BindFloat},
		{"string", "x", BindString},
		{"bytes", []byte{1, 2}, BindBytes},
		{"unrecognized type binds as string", struct{ X int }{1}, BindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BindTypeOf(tt.value))
		})
	}
}

func TestParse(t *testing.T) {
	for tag, want := range map[string]Dialect{
		"mysql":      MySQL,
		"mariadb":    MySQL,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
		"postgres":   Postgres,
		"postgresql": Postgres,
		"pgsql":      Postgres,
		"oracle":     Oracle,
		"sqlserver":  SQLServer,
		"mssql":      SQLServer,
		"db":         Generic,
		"other":      Other,
	} {
		got, err := Parse(tag)
		assert.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("dbase")
	assert.Error(t, err)
}
