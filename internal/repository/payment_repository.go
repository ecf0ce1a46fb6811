package repository

import (
    "context"
    "database/sql"
    "errors"
    "strconv"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// PaymentRepo provides data access to the payments table.  A payment
// funds exactly one booking (payments.bid is unique) and exists only
// while that booking is unresolved; removing a payment forces the
// booking to Cancelled in the same transaction.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Insert records a payment against a booking.  A colliding payment id
// or a second payment for the same booking surfaces as a
// DuplicateKeyError; the unique index on bid enforces the one
// payment per booking invariant at the storage layer.
func (r *PaymentRepo) Insert(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments (pid, bid, pmethod, pdatetime, amount) VALUES (?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        p.ID, p.BookingID, p.Method, p.DateTime.UTC().Format("2006-01-02 15:04:05"), p.Amount)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "pid/bid", Value: strconv.FormatUint(p.ID, 10)}
    }
    if err != nil {
        return transient("insert payment", err)
    }
    return nil
}

// BookingIDTx returns the id of the booking funded by the payment, or
// a NotFoundError when the payment does not exist (including when it
// was already removed by a previous call).
func (r *PaymentRepo) BookingIDTx(ctx context.Context, tx Tx, paymentID uint64) (uint64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return 0, err
    }
    var bid uint64
    err = t.QueryRowContext(ctx, `SELECT bid FROM payments WHERE pid = ?`, paymentID).Scan(&bid)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, &NotFoundError{Entity: "payment", Field: "pid", Value: strconv.FormatUint(paymentID, 10)}
    }
    if err != nil {
        return 0, transient("get payment booking", err)
    }
    return bid, nil
}

// DeleteByBookingTx removes the payment funding the given booking,
// if one exists.  The purge calls this before deleting the booking
// row; the restricting foreign key from payments.bid would otherwise
// block the delete.
func (r *PaymentRepo) DeleteByBookingTx(ctx context.Context, tx Tx, bookingID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    if _, err := t.ExecContext(ctx, `DELETE FROM payments WHERE bid = ?`, bookingID); err != nil {
        return transient("delete payment by booking", err)
    }
    return nil
}

// DeleteTx removes the payment row within the transaction.
func (r *PaymentRepo) DeleteTx(ctx context.Context, tx Tx, paymentID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    res, err := t.ExecContext(ctx, `DELETE FROM payments WHERE pid = ?`, paymentID)
    if err != nil {
        return transient("delete payment", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return transient("delete payment", err)
    }
    if n == 0 {
        return &NotFoundError{Entity: "payment", Field: "pid", Value: strconv.FormatUint(paymentID, 10)}
    }
    return nil
}
