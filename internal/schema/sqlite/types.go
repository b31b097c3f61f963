package sqlite

import (
	"strconv"
	"strings"

	"github.com/larkbyte/dialectdb/internal/dialect"
)

// abstractType maps a declared SQLite column type to the dialect-neutral
// type. SQLite's affinity rules mean the declaration is free-form text, so
// matching is by base type name.
func abstractType(declared string, isPrimary bool) dialect.ColumnType {
	base := strings.ToLower(declared)
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)

	switch base {
	case "integer", "int":
		// A single INTEGER primary key is SQLite's rowid alias.
		if isPrimary {
			return dialect.TypePK
		}
		return dialect.TypeInteger
	case "bigint":
		return dialect.TypeBigInt
	case "tinyint":
		return dialect.TypeTinyInt
	case "smallint", "mediumint":
		return dialect.TypeSmallInt
	case "char", "character":
		return dialect.TypeChar
	case "varchar", "nvarchar", "nchar":
		return dialect.TypeString
	case "text", "clob":
		return dialect.TypeText
	case "float":
		return dialect.TypeFloat
	case "double", "real", "double precision":
		return dialect.TypeDouble
	case "decimal", "numeric":
		return dialect.TypeDecimal
	case "datetime":
		return dialect.TypeDateTime
	case "timestamp":
		return dialect.TypeTimestamp
	case "time":
		return dialect.TypeTime
	case "date":
		return dialect.TypeDate
	case "blob", "binary", "varbinary":
		return dialect.TypeBinary
	case "boolean", "bool":
		return dialect.TypeBoolean
	case "json":
		return dialect.TypeJSON
	}
	return dialect.TypeString
}

// parseSize extracts (size) or (precision,scale) from a declared type like
// "varchar(255)" or "decimal(10,2)". Absent qualifiers yield zeros.
func parseSize(declared string) (size, precision, scale int) {
	open := strings.IndexByte(declared, '(')
	close := strings.IndexByte(declared, ')')
	if open < 0 || close <= open {
		return 0, 0, 0
	}

	parts := strings.Split(declared[open+1:close], ",")
	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, 0
	}
	if len(parts) == 1 {
		return first, first, 0
	}
	second, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return first, first, 0
	}
	return first, first, second
}
