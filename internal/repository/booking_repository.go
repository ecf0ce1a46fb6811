package repository

import (
    "context"
    "database/sql"
    "errors"
    "strconv"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// BookingRepo provides data access to the bookings table.  Bookings
// move from Pending to Paid or Cancelled and are eventually purged by
// the cleanup operation; their seats live in show_seats and reference
// a booking through the nullable bid column.  All timestamp fields
// are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Exists reports whether a booking with the given id is present.  It
// is a boolean predicate, deliberately not a row count.
func (r *BookingRepo) Exists(ctx context.Context, bookingID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE bid = ? LIMIT 1`, bookingID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, transient("booking exists", err)
    }
    return true, nil
}

// Insert creates a new booking row.  The id is caller-supplied; a
// colliding id is reported as a DuplicateKeyError naming bid.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (bid, status, bdatetime, seats, sid, email) VALUES (?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        b.ID, b.Status, b.DateTime.UTC().Format("2006-01-02 15:04:05"), b.Seats, b.ShowID, b.Email)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "bid", Value: strconv.FormatUint(b.ID, 10)}
    }
    if err != nil {
        return transient("insert booking", err)
    }
    return nil
}

// Get returns the booking with the given id or a NotFoundError.
func (r *BookingRepo) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    const q = `SELECT bid, status, bdatetime, seats, sid, email FROM bookings WHERE bid = ?`
    var b model.Booking
    err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&b.ID, &b.Status, &b.DateTime, &b.Seats, &b.ShowID, &b.Email)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, &NotFoundError{Entity: "booking", Field: "bid", Value: strconv.FormatUint(bookingID, 10)}
    }
    if err != nil {
        return nil, transient("get booking", err)
    }
    return &b, nil
}

// CancelPending transitions every Pending booking to Cancelled in a
// single statement and returns the number of rows changed.  A second
// call finds nothing Pending and returns zero.
func (r *BookingRepo) CancelPending(ctx context.Context) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE status = ?`, model.StatusCancelled, model.StatusPending)
    if err != nil {
        return 0, transient("cancel pending bookings", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, transient("cancel pending bookings", err)
    }
    return n, nil
}

// CancelTx sets a single booking's status to Cancelled within the
// provided transaction, regardless of its current status.
func (r *BookingRepo) CancelTx(ctx context.Context, tx Tx, bookingID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    res, err := t.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE bid = ?`, model.StatusCancelled, bookingID)
    if err != nil {
        return transient("cancel booking", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return transient("cancel booking", err)
    }
    if n == 0 {
        return &NotFoundError{Entity: "booking", Field: "bid", Value: strconv.FormatUint(bookingID, 10)}
    }
    return nil
}

// CancelByShowTx force-cancels every booking referencing the given
// show, independent of current status, and returns how many bookings
// actually changed.  Rows already Cancelled are left untouched so the
// returned count reflects real transitions.
func (r *BookingRepo) CancelByShowTx(ctx context.Context, tx Tx, showID uint64) (int64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return 0, err
    }
    res, err := t.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE sid = ? AND status <> ?`,
        model.StatusCancelled, showID, model.StatusCancelled)
    if err != nil {
        return 0, transient("cancel bookings by show", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, transient("cancel bookings by show", err)
    }
    return n, nil
}

// CancelledIDsTx returns a snapshot of all Cancelled booking ids
// within the transaction.  The cleanup operation iterates this
// snapshot releasing seats and deleting rows.
func (r *BookingRepo) CancelledIDsTx(ctx context.Context, tx Tx) ([]uint64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return nil, err
    }
    rows, err := t.QueryContext(ctx, `SELECT bid FROM bookings WHERE status = ?`, model.StatusCancelled)
    if err != nil {
        return nil, transient("list cancelled bookings", err)
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, transient("list cancelled bookings", err)
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("list cancelled bookings", err)
    }
    return ids, nil
}

// DeleteTx removes a booking row within the transaction.  Seats must
// be released first; deleting the row does not touch show_seats.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx Tx, bookingID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    if _, err := t.ExecContext(ctx, `DELETE FROM bookings WHERE bid = ?`, bookingID); err != nil {
        return transient("delete booking", err)
    }
    return nil
}
