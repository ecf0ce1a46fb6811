package repository

import (
    "context"
    "database/sql"
    "errors"
    "strconv"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// ShowSeatRepo encapsulates database operations for show_seats.  A
// show seat is held by at most one booking at a time; acquisition
// goes through ClaimIfFree, a conditional single-statement update, so
// two concurrent claimants can never both win.
type ShowSeatRepo struct {
    db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo { return &ShowSeatRepo{db: db} }

const selectSeat = `SELECT ssid, sid, csid, bid, price FROM show_seats WHERE ssid = ?`

func scanSeat(row *sql.Row, seatID uint64) (*model.ShowSeat, error) {
    var s model.ShowSeat
    var bid sql.NullInt64
    err := row.Scan(&s.ID, &s.ShowID, &s.SeatID, &bid, &s.Price)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, &NotFoundError{Entity: "show seat", Field: "ssid", Value: strconv.FormatUint(seatID, 10)}
    }
    if err != nil {
        return nil, transient("get show seat", err)
    }
    if bid.Valid {
        b := uint64(bid.Int64)
        s.BookingID = &b
    }
    return &s, nil
}

// Get returns a single show seat by id or a NotFoundError.
func (r *ShowSeatRepo) Get(ctx context.Context, seatID uint64) (*model.ShowSeat, error) {
    return scanSeat(r.db.QueryRowContext(ctx, selectSeat, seatID), seatID)
}

// GetTx is Get within an existing transaction.
func (r *ShowSeatRepo) GetTx(ctx context.Context, tx Tx, seatID uint64) (*model.ShowSeat, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return nil, err
    }
    return scanSeat(t.QueryRowContext(ctx, selectSeat, seatID), seatID)
}

const claimSeat = `UPDATE show_seats SET bid = ? WHERE ssid = ? AND bid IS NULL`

// ClaimIfFree attaches the seat to the booking only if the seat is
// free at the moment of the write.  It reports whether exactly one
// row changed; a false result means the seat was already held.  This
// is the compare-and-swap at the heart of the engine: under two
// concurrent claims on the same seat, the database serializes the
// updates and only the first matches the `bid IS NULL` predicate.
func (r *ShowSeatRepo) ClaimIfFree(ctx context.Context, seatID, bookingID uint64) (bool, error) {
    res, err := r.db.ExecContext(ctx, claimSeat, bookingID, seatID)
    if err != nil {
        return false, transient("claim seat", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, transient("claim seat", err)
    }
    return n == 1, nil
}

// ClaimIfFreeTx is ClaimIfFree within an existing transaction, used
// by the reassignment flow so a lost claim rolls back the release of
// the original seat.
func (r *ShowSeatRepo) ClaimIfFreeTx(ctx context.Context, tx Tx, seatID, bookingID uint64) (bool, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return false, err
    }
    res, err := t.ExecContext(ctx, claimSeat, bookingID, seatID)
    if err != nil {
        return false, transient("claim seat", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, transient("claim seat", err)
    }
    return n == 1, nil
}

// ReleaseTx frees a single seat within the transaction.
func (r *ShowSeatRepo) ReleaseTx(ctx context.Context, tx Tx, seatID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    if _, err := t.ExecContext(ctx, `UPDATE show_seats SET bid = NULL WHERE ssid = ?`, seatID); err != nil {
        return transient("release seat", err)
    }
    return nil
}

// ReleaseByBookingTx frees every seat currently attached to the
// booking and returns the number of seats released.
func (r *ShowSeatRepo) ReleaseByBookingTx(ctx context.Context, tx Tx, bookingID uint64) (int64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return 0, err
    }
    res, err := t.ExecContext(ctx, `UPDATE show_seats SET bid = NULL WHERE bid = ?`, bookingID)
    if err != nil {
        return 0, transient("release seats by booking", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, transient("release seats by booking", err)
    }
    return n, nil
}

// ReleaseByShowTx frees every held seat of the given show.
func (r *ShowSeatRepo) ReleaseByShowTx(ctx context.Context, tx Tx, showID uint64) (int64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return 0, err
    }
    res, err := t.ExecContext(ctx, `UPDATE show_seats SET bid = NULL WHERE sid = ? AND bid IS NOT NULL`, showID)
    if err != nil {
        return 0, transient("release seats by show", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, transient("release seats by show", err)
    }
    return n, nil
}

const seatTheater = `SELECT p.tid
                     FROM show_seats ss
                     JOIN plays p ON p.sid = ss.sid
                     WHERE ss.ssid = ?`

// TheaterOf resolves the theater screening the seat's show, derived
// through the plays association.  The association is treated as one
// theater per show.
func (r *ShowSeatRepo) TheaterOf(ctx context.Context, seatID uint64) (uint64, error) {
    var tid uint64
    err := r.db.QueryRowContext(ctx, seatTheater, seatID).Scan(&tid)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, &NotFoundError{Entity: "show seat", Field: "ssid", Value: strconv.FormatUint(seatID, 10)}
    }
    if err != nil {
        return 0, transient("resolve seat theater", err)
    }
    return tid, nil
}

// TheaterOfTx is TheaterOf within an existing transaction.
func (r *ShowSeatRepo) TheaterOfTx(ctx context.Context, tx Tx, seatID uint64) (uint64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return 0, err
    }
    var tid uint64
    err = t.QueryRowContext(ctx, seatTheater, seatID).Scan(&tid)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, &NotFoundError{Entity: "show seat", Field: "ssid", Value: strconv.FormatUint(seatID, 10)}
    }
    if err != nil {
        return 0, transient("resolve seat theater", err)
    }
    return tid, nil
}

// FreeByPriceAndTheater returns the unbooked seats of the given price
// whose show plays in the given theater, ordered ascending by seat id
// for deterministic presentation.
func (r *ShowSeatRepo) FreeByPriceAndTheater(ctx context.Context, price uint32, theaterID uint64) ([]model.ShowSeat, error) {
    const q = `SELECT DISTINCT ss.ssid, ss.sid, ss.csid, ss.price
               FROM show_seats ss
               JOIN plays p ON p.sid = ss.sid
               WHERE ss.bid IS NULL AND ss.price = ? AND p.tid = ?
               ORDER BY ss.ssid ASC`
    rows, err := r.db.QueryContext(ctx, q, price, theaterID)
    if err != nil {
        return nil, transient("list free seats", err)
    }
    defer rows.Close()
    seats := make([]model.ShowSeat, 0)
    for rows.Next() {
        var s model.ShowSeat
        if err := rows.Scan(&s.ID, &s.ShowID, &s.SeatID, &s.Price); err != nil {
            return nil, transient("list free seats", err)
        }
        seats = append(seats, s)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("list free seats", err)
    }
    return seats, nil
}

// InsertBulkTx inserts multiple show_seat records in one statement,
// all initially free.  It is used when a new showing is scheduled and
// every physical seat of the theater is put on sale.  Passing an
// empty slice has no effect and returns nil.
func (r *ShowSeatRepo) InsertBulkTx(ctx context.Context, tx Tx, seats []model.ShowSeat) error {
    if len(seats) == 0 {
        return nil
    }
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    query := `INSERT INTO show_seats (sid, csid, bid, price) VALUES `
    args := make([]interface{}, 0, len(seats)*3)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, NULL, ?)"
        args = append(args, s.ShowID, s.SeatID, s.Price)
    }
    if _, err := t.ExecContext(ctx, query, args...); err != nil {
        return transient("insert show seats", err)
    }
    return nil
}
