package repository

import (
	"fmt"
	"time"
)

// Supported sqlx driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Dialect hides the few statements that differ between Postgres and SQLite.
// Queries are written with ? placeholders and rebound by sqlx.
type Dialect struct {
	Driver string
}

func (d Dialect) IsPostgres() bool {
	return d.Driver == DriverPostgres
}

// ForUpdate is the row-lock suffix for a SELECT. SQLite takes the database
// write lock when the transaction begins (_txlock=immediate) so it needs none.
func (d Dialect) ForUpdate() string {
	if d.IsPostgres() {
		return " FOR UPDATE"
	}
	return ""
}

// LockTimeout returns the statement bounding lock waits inside the current
// transaction, or "" when the dialect has no such setting.
func (d Dialect) LockTimeout(timeout time.Duration) string {
	if !d.IsPostgres() || timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
}

// Numeric makes a money column usable in aggregates. SQLite keeps money as TEXT.
func (d Dialect) Numeric(column string) string {
	if d.IsPostgres() {
		return column
	}
	return "CAST(" + column + " AS REAL)"
}
