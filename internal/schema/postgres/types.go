package postgres

import (
	"strings"

	"github.com/larkbyte/dialectdb/internal/dialect"
)

// abstractType maps information_schema's data_type (with udt_name for
// ARRAY/USER-DEFINED cases) to the dialect-neutral column type.
func abstractType(dataType, udtName string, serial bool) dialect.ColumnType {
	switch strings.ToLower(dataType) {
	case "integer", "smallserial", "serial":
		if serial {
			return dialect.TypePK
		}
		return dialect.TypeInteger
	case "bigint", "bigserial":
		if serial {
			return dialect.TypeBigPK
		}
		return dialect.TypeBigInt
	case "smallint":
		return dialect.TypeSmallInt
	case "character":
		return dialect.TypeChar
	case "character varying", "uuid":
		return dialect.TypeString
	case "text", "xml":
		return dialect.TypeText
	case "real":
		return dialect.TypeFloat
	case "double precision":
		return dialect.TypeDouble
	case "numeric", "decimal":
		return dialect.TypeDecimal
	case "money":
		return dialect.TypeMoney
	case "timestamp without time zone", "timestamp with time zone":
		return dialect.TypeTimestamp
	case "time without time zone", "time with time zone":
		return dialect.TypeTime
	case "date":
		return dialect.TypeDate
	case "bytea":
		return dialect.TypeBinary
	case "boolean":
		return dialect.TypeBoolean
	case "json", "jsonb":
		return dialect.TypeJSON
	}
	// Arrays, enums, ranges, and other user-defined types carry their
	// udt_name but bind and render as strings.
	return dialect.TypeString
}

// nativeName prefers the concrete udt_name where data_type is a catch-all.
func nativeName(dataType, udtName string) string {
	switch dataType {
	case "ARRAY":
		// information_schema reports arrays as "ARRAY" with udt_name "_int4" etc.
		return strings.TrimPrefix(udtName, "_") + "[]"
	case "USER-DEFINED":
		return udtName
	}
	return dataType
}
