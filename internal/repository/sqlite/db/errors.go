package db

import (
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintKind reports which constraint failed, matching on the extended
// result code when the connection provides one and on the message otherwise.
func constraintKind(err error, extended int, marker string) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == extended {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), marker)
}

// IsUniqueViolation reports a UNIQUE failure on column, written as table.column.
func IsUniqueViolation(err error, column string) bool {
	return constraintKind(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
}

func IsForeignKeyViolation(err error) bool {
	return constraintKind(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}

func IsCheckViolation(err error) bool {
	return constraintKind(err, sqlite3.SQLITE_CONSTRAINT_CHECK, "CHECK constraint failed")
}

// Timestamps are stored as INTEGER unix nanoseconds so that ORDER BY is exact.
func ToUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func FromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }
