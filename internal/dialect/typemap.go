package dialect

// ColumnType is the abstract column type shared by all dialects. DDL
// generation and native-type coercion are driven off this enumeration; each
// value maps to exactly one native type for the active dialect.
type ColumnType string

const (
	TypePK        ColumnType = "pk"
	TypeBigPK     ColumnType = "bigpk"
	TypeChar      ColumnType = "char"
	TypeString    ColumnType = "string"
	TypeText      ColumnType = "text"
	TypeTinyInt   ColumnType = "tinyint"
	TypeSmallInt  ColumnType = "smallint"
	TypeInteger   ColumnType = "integer"
	TypeBigInt    ColumnType = "bigint"
	TypeFloat     ColumnType = "float"
	TypeDouble    ColumnType = "double"
	TypeDecimal   ColumnType = "decimal"
	TypeDateTime  ColumnType = "datetime"
	TypeTimestamp ColumnType = "timestamp"
	TypeTime      ColumnType = "time"
	TypeDate      ColumnType = "date"
	TypeBinary    ColumnType = "binary"
	TypeBoolean   ColumnType = "boolean"
	TypeMoney     ColumnType = "money"
	TypeJSON      ColumnType = "json"
)

var mysqlTypes = map[ColumnType]string{
	TypePK:        "int(11) NOT NULL AUTO_INCREMENT PRIMARY KEY",
	TypeBigPK:     "bigint(20) NOT NULL AUTO_INCREMENT PRIMARY KEY",
	TypeChar:      "char(1)",
	TypeString:    "varchar(255)",
	TypeText:      "text",
	TypeTinyInt:   "tinyint(3)",
	TypeSmallInt:  "smallint(6)",
	TypeInteger:   "int(11)",
	TypeBigInt:    "bigint(20)",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeDecimal:   "decimal(10,0)",
	TypeDateTime:  "datetime",
	TypeTimestamp: "timestamp",
	TypeTime:      "time",
	TypeDate:      "date",
	TypeBinary:    "blob",
	TypeBoolean:   "tinyint(1)",
	TypeMoney:     "decimal(19,4)",
	TypeJSON:      "json",
}

var sqliteTypes = map[ColumnType]string{
	TypePK:        "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	TypeBigPK:     "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	TypeChar:      "char(1)",
	TypeString:    "varchar(255)",
	TypeText:      "text",
	TypeTinyInt:   "tinyint",
	TypeSmallInt:  "smallint",
	TypeInteger:   "integer",
	TypeBigInt:    "bigint",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeDecimal:   "decimal(10,0)",
	TypeDateTime:  "datetime",
	TypeTimestamp: "timestamp",
	TypeTime:      "time",
	TypeDate:      "date",
	TypeBinary:    "blob",
	TypeBoolean:   "boolean",
	TypeMoney:     "decimal(19,4)",
	TypeJSON:      "json",
}

var postgresTypes = map[ColumnType]string{
	TypePK:        "serial NOT NULL PRIMARY KEY",
	TypeBigPK:     "bigserial NOT NULL PRIMARY KEY",
	TypeChar:      "char(1)",
	TypeString:    "varchar(255)",
	TypeText:      "text",
	TypeTinyInt:   "smallint",
	TypeSmallInt:  "smallint",
	TypeInteger:   "integer",
	TypeBigInt:    "bigint",
	TypeFloat:     "double precision",
	TypeDouble:    "double precision",
	TypeDecimal:   "numeric(10,0)",
	TypeDateTime:  "timestamp(0)",
	TypeTimestamp: "timestamp(0)",
	TypeTime:      "time(0)",
	TypeDate:      "date",
	TypeBinary:    "bytea",
	TypeBoolean:   "boolean",
	TypeMoney:     "numeric(19,4)",
	TypeJSON:      "jsonb",
}

var oracleTypes = map[ColumnType]string{
	TypePK:        "NUMBER(10) NOT NULL PRIMARY KEY",
	TypeBigPK:     "NUMBER(20) NOT NULL PRIMARY KEY",
	TypeChar:      "CHAR(1)",
	TypeString:    "VARCHAR2(255)",
	TypeText:      "CLOB",
	TypeTinyInt:   "NUMBER(3)",
	TypeSmallInt:  "NUMBER(5)",
	TypeInteger:   "NUMBER(10)",
	TypeBigInt:    "NUMBER(20)",
	TypeFloat:     "BINARY_FLOAT",
	TypeDouble:    "BINARY_DOUBLE",
	TypeDecimal:   "NUMBER",
	TypeDateTime:  "TIMESTAMP",
	TypeTimestamp: "TIMESTAMP",
	TypeTime:      "TIMESTAMP",
	TypeDate:      "DATE",
	TypeBinary:    "BLOB",
	TypeBoolean:   "NUMBER(1)",
	TypeMoney:     "NUMBER(19,4)",
	TypeJSON:      "CLOB",
}

var sqlserverTypes = map[ColumnType]string{
	TypePK:        "int IDENTITY PRIMARY KEY",
	TypeBigPK:     "bigint IDENTITY PRIMARY KEY",
	TypeChar:      "char(1)",
	TypeString:    "nvarchar(255)",
	TypeText:      "nvarchar(max)",
	TypeTinyInt:   "tinyint",
	TypeSmallInt:  "smallint",
	TypeInteger:   "int",
	TypeBigInt:    "bigint",
	TypeFloat:     "float",
	TypeDouble:    "float",
	TypeDecimal:   "decimal(18,0)",
	TypeDateTime:  "datetime2",
	TypeTimestamp: "datetime2",
	TypeTime:      "time",
	TypeDate:      "date",
	TypeBinary:    "varbinary(max)",
	TypeBoolean:   "bit",
	TypeMoney:     "decimal(19,4)",
	TypeJSON:      "nvarchar(max)",
}

var genericTypes = map[ColumnType]string{
	TypePK:        "integer NOT NULL PRIMARY KEY",
	TypeBigPK:     "bigint NOT NULL PRIMARY KEY",
	TypeChar:      "char(1)",
	TypeString:    "varchar(255)",
	TypeText:      "text",
	TypeTinyInt:   "smallint",
	TypeSmallInt:  "smallint",
	TypeInteger:   "integer",
	TypeBigInt:    "bigint",
	TypeFloat:     "float",
	TypeDouble:    "double precision",
	TypeDecimal:   "decimal(10,0)",
	TypeDateTime:  "timestamp",
	TypeTimestamp: "timestamp",
	TypeTime:      "time",
	TypeDate:      "date",
	TypeBinary:    "blob",
	TypeBoolean:   "boolean",
	TypeMoney:     "decimal(19,4)",
	TypeJSON:      "text",
}

// NativeType maps an abstract column type to the native type the active
// dialect declares for it. Dialects without a table of their own (Other)
// fall back to the generic ANSI mapping; an abstract type missing from the
// table is returned verbatim so callers can pass raw native types through.
func NativeType(d Dialect, t ColumnType) string {
	var m map[ColumnType]string
	switch d {
	case MySQL:
		m = mysqlTypes
	case SQLite:
		m = sqliteTypes
	case Postgres:
		m = postgresTypes
	case Oracle:
		m = oracleTypes
	case SQLServer:
		m = sqlserverTypes
	default:
		m = genericTypes
	}
	if native, ok := m[t]; ok {
		return native
	}
	return string(t)
}

// BindType tags the parameter type to use when binding a runtime value into
// a prepared statement.
type BindType int

const (
	BindNull BindType = iota
	BindBool
	BindInt
	BindFloat
	BindString
	BindBytes
)

func (b BindType) String() string {
	switch b {
	case BindNull:
		return "null"
	case BindBool:
		return "bool"
	case BindInt:
		return "int"
	case BindFloat:
		return "float"
	case BindBytes:
		return "bytes"
	default:
		return "string"
	}
}

// BindTypeOf resolves the bind-parameter type for a runtime value. Values of
// types the switch does not recognize bind as strings, which every supported
// driver accepts.
func BindTypeOf(v any) BindType {
	switch v.(type) {
	case nil:
		return BindNull
	case bool:
		return BindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return BindInt
	case float32, float64:
		return BindFloat
	case []byte:
		return BindBytes
	default:
		return BindString
	}
}
