package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/larkbyte/dialectdb/internal/dialect"
)

// TableKey builds the cache key for one table's metadata. The key is a
// deterministic fingerprint of {dialect, resolved real name}, safe for
// stores with restricted key alphabets (object names, file paths).
func TableKey(d dialect.Dialect, table string) string {
	return "table/" + fingerprint(d.String(), table)
}

// NamesKey builds the cache key for a name-enumeration result (tables,
// views, or schemas) within one schema.
func NamesKey(d dialect.Dialect, kind, schemaName string) string {
	return "names/" + kind + "/" + fingerprint(d.String(), schemaName)
}

// QueryKey builds the cache key for a query result: a fingerprint of the
// dialect, the SQL text, and the bound parameters. Two statements differing
// only in a bound value never collide.
func QueryKey(d dialect.Dialect, sql string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, d.String(), sql)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%T=%v", a, a))
	}
	return "query/" + fingerprint(parts...)
}

// TableDep is the dependency token shared by all cache entries derived from
// one table, so refreshing the table invalidates them together.
func TableDep(table string) string {
	return "table:" + table
}

// NamesDep is the dependency token for name-enumeration entries.
const NamesDep = "names"

func fingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:16])
}
