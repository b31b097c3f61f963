// Package dialect models the SQL conventions of the supported database
// engines: identifier quoting, abstract-to-native column type mapping, and
// bind-parameter typing. Everything here is pure — no connections, no state.
package dialect

import "github.com/larkbyte/dialectdb/internal/errs"

// Dialect identifies a database engine's SQL conventions.
//
// It is a closed enumeration: an unhandled dialect is a construction-time
// error, never a silent default branch. Generic is the explicit fallback for
// engines without dedicated support; Other means "no conventions defined" and
// degrades to pass-through behavior everywhere.
type Dialect int

const (
	Other Dialect = iota
	MySQL
	SQLite
	Postgres
	Oracle
	SQLServer
	Generic
)

var dialectNames = map[Dialect]string{
	Other:     "other",
	MySQL:     "mysql",
	SQLite:    "sqlite",
	Postgres:  "postgres",
	Oracle:    "oracle",
	SQLServer: "sqlserver",
	Generic:   "db",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return "other"
}

// Parse resolves a dialect tag from configuration. Unknown tags are a
// configuration error; callers that want graceful degradation pass Other
// explicitly instead of an arbitrary string.
func Parse(tag string) (Dialect, error) {
	switch tag {
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgsql":
		return Postgres, nil
	case "oracle", "oci":
		return Oracle, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	case "db":
		return Generic, nil
	case "other":
		return Other, nil
	}
	return Other, errs.Newf(errs.ErrKindConfiguration, "unknown dialect tag %q", tag)
}
