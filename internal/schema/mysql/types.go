package mysql

import (
	"strings"

	"github.com/larkbyte/dialectdb/internal/dialect"
)

// abstractType maps a MySQL data type to the dialect-neutral column type.
// dataType is information_schema's bare type ("int"), columnType the full
// declaration ("int(11) unsigned").
func abstractType(dataType, columnType string, isPrimary, autoIncrement bool) dialect.ColumnType {
	switch strings.ToLower(dataType) {
	case "int", "mediumint":
		if isPrimary && autoIncrement {
			return dialect.TypePK
		}
		return dialect.TypeInteger
	case "bigint":
		if isPrimary && autoIncrement {
			return dialect.TypeBigPK
		}
		return dialect.TypeBigInt
	case "tinyint":
		// tinyint(1) is MySQL's boolean convention.
		if strings.HasPrefix(strings.ToLower(columnType), "tinyint(1)") {
			return dialect.TypeBoolean
		}
		return dialect.TypeTinyInt
	case "smallint", "year":
		return dialect.TypeSmallInt
	case "char":
		return dialect.TypeChar
	case "varchar", "enum", "set":
		return dialect.TypeString
	case "text", "tinytext", "mediumtext", "longtext":
		return dialect.TypeText
	case "float":
		return dialect.TypeFloat
	case "double", "real":
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
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob", "bit":
		return dialect.TypeBinary
	case "json":
		return dialect.TypeJSON
	}
	return dialect.TypeString
}
