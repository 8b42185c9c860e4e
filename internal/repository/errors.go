// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish between
// failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a customer email is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a row
// owned by someone else. Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// current state, such as checking out an empty cart. Handlers translate it
// into 409.
var ErrConflict = errors.New("conflict")

// ErrReferenceMissing is returned when a foreign key points at a row that
// does not exist (for example an order item for an unknown product).
var ErrReferenceMissing = errors.New("referenced row does not exist")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow  = 1452
)

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case isMySQLError(err, mysqlDuplicateEntry):
		return ErrConflict
	case isMySQLError(err, mysqlNoReferencedRow):
		return ErrReferenceMissing
	}
	return err
}
