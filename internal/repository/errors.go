// Package repository holds the data access layer.  Every repository maps one
// table and returns the sentinel errors below so handlers can tell a missing
// row from a uniqueness clash from a store failure.
package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when no row matches the requested id.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique key
// (user email, report number).  Handlers translate it into HTTP 409.
var ErrDuplicate = errors.New("duplicate key")

// isDuplicateKey recognises MySQL error 1062 and SQLite UNIQUE failures.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// now is the timestamp written to created_at/updated_at.  MySQL DATETIME
// keeps whole seconds only.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

func nullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
