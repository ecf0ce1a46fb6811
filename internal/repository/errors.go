// Package repository implements the reservation store over MySQL and
// defines the error taxonomy shared by every store operation. These
// typed values allow higher layers such as services and handlers to
// distinguish between failure scenarios: a duplicate key on insert, a
// missing referenced row, a lost seat claim, a violated matching
// constraint, or a transient storage failure that may be retried.
package repository

import (
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"
)

// ErrSeatUnavailable is returned when a conditional seat claim finds
// the seat already held by another booking. Handlers should translate
// this into an HTTP 409 response.
var ErrSeatUnavailable = errors.New("seat unavailable")

// DuplicateKeyError is returned when an insert attempts to reuse an
// id or unique key that is already present. Field names the column
// that collided so callers can report the offending input.
type DuplicateKeyError struct {
    Field string
    Value string
}

func (e *DuplicateKeyError) Error() string {
    return fmt.Sprintf("duplicate key: %s=%q already exists", e.Field, e.Value)
}

// NotFoundError is returned when a referenced row does not exist.
// Entity names the table and Field the identifying column, so the
// caller can tell which reference was dangling.
type NotFoundError struct {
    Entity string
    Field  string
    Value  string
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("%s with %s=%q does not exist", e.Entity, e.Field, e.Value)
}

// ConstraintViolationError is returned when an operation's matching
// rules fail: a candidate seat with the wrong price or theater, a
// seat that does not belong to the booking's show, or an invalid
// booking status.
type ConstraintViolationError struct {
    Reason string
}

func (e *ConstraintViolationError) Error() string {
    return "constraint violation: " + e.Reason
}

// TransientError wraps an underlying storage or connection failure.
// Every store operation is transactional or single-statement, so a
// caller observing a TransientError may retry the whole operation.
type TransientError struct {
    Op  string
    Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// transient wraps err as a TransientError unless it is nil.
func transient(op string, err error) error {
    if err == nil {
        return nil
    }
    return &TransientError{Op: op, Err: err}
}

// isDuplicateKey reports whether err is the MySQL duplicate-entry
// error (1062), raised when a primary or unique key collides.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
