package dialect

import "strings"

// Dialect-neutral identifier markers. SQL fragments built by the query layer
// wrap identifiers as [[name]]; Normalize rewrites the markers into the
// active engine's quoting syntax.
const (
	openMarker  = "[["
	closeMarker = "]]"
)

// Normalize translates the dialect-neutral [[ and ]] identifier markers in
// sql into the active dialect's quote characters.
//
// This is textual substitution only: nested or unbalanced markers are not
// validated and the input is never parsed as SQL. Dialects without a
// quoting rule (Other) return the input unchanged. Applying Normalize to
// output that contains no remaining markers is a no-op.
func Normalize(sql string, d Dialect) string {
	switch d {
	case MySQL, SQLite:
		return replaceMarkers(sql, "`", "`")
	case Oracle:
		return replaceMarkers(sql, `"`, `"`)
	case Postgres:
		return normalizePostgres(sql)
	case SQLServer, Generic:
		return replaceMarkers(sql, "[", "]")
	default:
		return sql
	}
}

func replaceMarkers(sql, open, close string) string {
	sql = strings.ReplaceAll(sql, openMarker, open)
	return strings.ReplaceAll(sql, closeMarker, close)
}

// normalizePostgres handles the bracket ambiguity between identifier markers
// and array subscripts: only the doubled ]] closes a quote, so the single ]
// in val[1] stays a literal. After marker substitution, the escape sequences
// \[ and \] are unescaped to literal brackets.
//
// The substitution order (markers first, escapes second) is load-bearing:
// callers rely on it when mixing quoted identifiers with array literals.
func normalizePostgres(sql string) string {
	sql = strings.ReplaceAll(sql, openMarker, `"`)
	sql = strings.ReplaceAll(sql, closeMarker, `"`)
	sql = strings.ReplaceAll(sql, `\[`, "[")
	sql = strings.ReplaceAll(sql, `\]`, "]")
	return sql
}
