package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect describes the SQL flavour spoken by a driver.
type Dialect interface {
	// Name returns the dialect name understood by goose.
	Name() string
	// Placeholder returns the bind marker for the n-th argument, starting at 1.
	Placeholder(n int) string
	// Quote quotes an identifier. Dotted names are quoted per segment.
	Quote(ident string) string
	// Returning reports whether INSERT ... RETURNING is used to read keys.
	Returning() bool
}

var (
	// Postgres uses $n placeholders and RETURNING.
	Postgres Dialect = postgresDialect{}
	// SQLite uses ? placeholders and the driver's last insert id.
	SQLite Dialect = sqliteDialect{}
)

// DialectFor returns the dialect matching a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPgx, "postgres":
		return Postgres, nil
	case DriverSQLite, "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string              { return "postgres" }
func (postgresDialect) Placeholder(n int) string  { return "$" + strconv.Itoa(n) }
func (postgresDialect) Quote(ident string) string { return quoteIdent(ident) }
func (postgresDialect) Returning() bool           { return true }

type sqliteDialect struct{}

func (sqliteDialect) Name() string              { return "sqlite3" }
func (sqliteDialect) Placeholder(int) string    { return "?" }
func (sqliteDialect) Quote(ident string) string { return quoteIdent(ident) }
func (sqliteDialect) Returning() bool           { return false }

func quoteIdent(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
