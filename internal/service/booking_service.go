package service

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

// BookingService orchestrates booking creation, seat assignment,
// cancellation, reassignment, payment removal and bulk cleanup.  It
// is the only writer of booking, show-seat and payment state; every
// public method is safe to call concurrently against the shared
// store because seat acquisition goes through the store's
// conditional claim and every multi-step operation runs inside a
// single transaction.
type BookingService struct {
    txm      repository.Manager
    bookings BookingStore
    seats    SeatStore
    payments PaymentStore
    shows    ShowStore
    users    UserStore
    alloc    *SeatAllocator
    events   EventPublisher // optional; nil disables event publishing
}

// NewBookingService constructs a BookingService.  All store
// dependencies must be non-nil; events may be nil.
func NewBookingService(txm repository.Manager, bookings BookingStore, seats SeatStore, payments PaymentStore, shows ShowStore, users UserStore, events EventPublisher) *BookingService {
    if txm == nil || bookings == nil || seats == nil || payments == nil || shows == nil || users == nil {
        panic("nil store passed to NewBookingService")
    }
    return &BookingService{
        txm:      txm,
        bookings: bookings,
        seats:    seats,
        payments: payments,
        shows:    shows,
        users:    users,
        alloc:    NewSeatAllocator(seats),
        events:   events,
    }
}

// Allocator exposes the seat allocator backed by the same store, for
// the interactive layer to list reassignment candidates.
func (s *BookingService) Allocator() *SeatAllocator { return s.alloc }

// CreateBooking inserts a new booking with no seats attached.  The
// id must be unused, the show and the owning user must exist, and
// the status must be one of Pending, Paid or Cancelled.  All checks
// happen before the single insert, so no partial state is possible.
func (s *BookingService) CreateBooking(ctx context.Context, b *model.Booking) error {
    switch b.Status {
    case model.StatusPending, model.StatusPaid, model.StatusCancelled:
    default:
        return &repository.ConstraintViolationError{Reason: fmt.Sprintf("invalid booking status %q", b.Status)}
    }
    exists, err := s.bookings.Exists(ctx, b.ID)
    if err != nil {
        return err
    }
    if exists {
        return &repository.DuplicateKeyError{Field: "bid", Value: fmt.Sprintf("%d", b.ID)}
    }
    ok, err := s.shows.Exists(ctx, b.ShowID)
    if err != nil {
        return err
    }
    if !ok {
        return &repository.NotFoundError{Entity: "show", Field: "sid", Value: fmt.Sprintf("%d", b.ShowID)}
    }
    ok, err = s.users.Exists(ctx, b.Email)
    if err != nil {
        return err
    }
    if !ok {
        return &repository.NotFoundError{Entity: "user", Field: "email", Value: b.Email}
    }
    return s.bookings.Insert(ctx, b)
}

// AssignSeat attaches one free seat to the booking.  The seat must
// belong to the booking's show.  The claim is a compare-and-swap, not
// a read-then-write: when two callers race for the same seat exactly
// one wins and the other observes ErrSeatUnavailable with no state
// change.
func (s *BookingService) AssignSeat(ctx context.Context, bookingID, seatID uint64) error {
    b, err := s.bookings.Get(ctx, bookingID)
    if err != nil {
        return err
    }
    seat, err := s.seats.Get(ctx, seatID)
    if err != nil {
        return err
    }
    if seat.ShowID != b.ShowID {
        return &repository.ConstraintViolationError{
            Reason: fmt.Sprintf("seat %d belongs to show %d, booking %d is for show %d", seatID, seat.ShowID, bookingID, b.ShowID),
        }
    }
    claimed, err := s.seats.ClaimIfFree(ctx, seatID, bookingID)
    if err != nil {
        return err
    }
    if !claimed {
        return repository.ErrSeatUnavailable
    }
    return nil
}

// ReassignSeat moves a booking from one seat to an equivalent free
// seat in a single transaction: the source seat is released, then the
// target is claimed conditionally.  When the claim loses a race to a
// third party the whole transaction rolls back, so the booking never
// loses its original seat mid-operation.  The target must match the
// source seat's price and theater; otherwise the operation fails with
// a ConstraintViolationError before anything is written.
func (s *BookingService) ReassignSeat(ctx context.Context, bookingID, fromSeatID, toSeatID uint64) error {
    tx, err := s.txm.Begin(ctx)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    from, err := s.seats.GetTx(ctx, tx, fromSeatID)
    if err != nil {
        return err
    }
    if from.Free() || *from.BookingID != bookingID {
        return &repository.ConstraintViolationError{
            Reason: fmt.Sprintf("seat %d is not held by booking %d", fromSeatID, bookingID),
        }
    }
    to, err := s.seats.GetTx(ctx, tx, toSeatID)
    if err != nil {
        return err
    }
    if to.Price != from.Price {
        return &repository.ConstraintViolationError{
            Reason: fmt.Sprintf("seat %d price %d does not match seat %d price %d", toSeatID, to.Price, fromSeatID, from.Price),
        }
    }
    fromTheater, err := s.seats.TheaterOfTx(ctx, tx, fromSeatID)
    if err != nil {
        return err
    }
    toTheater, err := s.seats.TheaterOfTx(ctx, tx, toSeatID)
    if err != nil {
        return err
    }
    if fromTheater != toTheater {
        return &repository.ConstraintViolationError{
            Reason: fmt.Sprintf("seat %d is in theater %d, seat %d is in theater %d", toSeatID, toTheater, fromSeatID, fromTheater),
        }
    }

    if err := s.seats.ReleaseTx(ctx, tx, fromSeatID); err != nil {
        return err
    }
    claimed, err := s.seats.ClaimIfFreeTx(ctx, tx, toSeatID, bookingID)
    if err != nil {
        return err
    }
    if !claimed {
        // Lost the race for the target; the rollback restores the
        // original seat.
        return repository.ErrSeatUnavailable
    }
    if err := tx.Commit(); err != nil {
        return &repository.TransientError{Op: "commit reassign seat", Err: err}
    }
    committed = true
    return nil
}

// CancelPendingBookings transitions every Pending booking to
// Cancelled and returns the count changed.  Seats stay attached:
// cancellation means no further payment is expected, not that seats
// are freed.  Idempotent; a second call returns zero.
func (s *BookingService) CancelPendingBookings(ctx context.Context) (int64, error) {
    n, err := s.bookings.CancelPending(ctx)
    if err != nil {
        return 0, err
    }
    if n > 0 && s.events != nil {
        s.events.BookingsCancelled(ctx, n)
    }
    return n, nil
}

// RemovePayment deletes the payment and forces the funded booking to
// Cancelled, unconditionally of its current status, in one
// transaction.  It returns the affected booking id.  A second call
// with the same id fails with a NotFoundError since the payment row
// is gone.
func (s *BookingService) RemovePayment(ctx context.Context, paymentID uint64) (uint64, error) {
    tx, err := s.txm.Begin(ctx)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    bookingID, err := s.payments.BookingIDTx(ctx, tx, paymentID)
    if err != nil {
        return 0, err
    }
    if err := s.bookings.CancelTx(ctx, tx, bookingID); err != nil {
        return 0, err
    }
    if err := s.payments.DeleteTx(ctx, tx, paymentID); err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, &repository.TransientError{Op: "commit remove payment", Err: err}
    }
    committed = true
    if s.events != nil {
        s.events.PaymentRemoved(ctx, paymentID, bookingID)
    }
    return bookingID, nil
}

// ClearCancelledBookings purges every Cancelled booking: all seats
// still attached to it are released, any payment still funding it is
// removed, then the row is deleted, inside one transaction over a
// snapshot of the cancelled set.  Returns the number of bookings
// purged; idempotent, and it leaves no seat or payment referencing a
// deleted booking.
func (s *BookingService) ClearCancelledBookings(ctx context.Context) (int64, error) {
    tx, err := s.txm.Begin(ctx)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    ids, err := s.bookings.CancelledIDsTx(ctx, tx)
    if err != nil {
        return 0, err
    }
    for _, id := range ids {
        if _, err := s.seats.ReleaseByBookingTx(ctx, tx, id); err != nil {
            return 0, err
        }
        if err := s.payments.DeleteByBookingTx(ctx, tx, id); err != nil {
            return 0, err
        }
        if err := s.bookings.DeleteTx(ctx, tx, id); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, &repository.TransientError{Op: "commit clear cancelled bookings", Err: err}
    }
    committed = true
    return int64(len(ids)), nil
}

// RemoveShowsOnDate removes every show on the given date playing in
// a theater of the given cinema.  For each show, in one transaction:
// its seats are released, bookings still referencing it are
// force-cancelled, its play rows are deleted, then the show itself.
// It returns the number of shows removed and bookings cancelled so
// the caller can report both.
func (s *BookingService) RemoveShowsOnDate(ctx context.Context, date time.Time, cinemaID uint64) (showsRemoved, bookingsCancelled int64, err error) {
    tx, err := s.txm.Begin(ctx)
    if err != nil {
        return 0, 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    ids, err := s.shows.IDsOnDateTx(ctx, tx, date, cinemaID)
    if err != nil {
        return 0, 0, err
    }
    for _, sid := range ids {
        if _, err := s.seats.ReleaseByShowTx(ctx, tx, sid); err != nil {
            return 0, 0, err
        }
        n, err := s.bookings.CancelByShowTx(ctx, tx, sid)
        if err != nil {
            return 0, 0, err
        }
        bookingsCancelled += n
        if err := s.shows.DeletePlaysTx(ctx, tx, sid); err != nil {
            return 0, 0, err
        }
        if err := s.shows.DeleteTx(ctx, tx, sid); err != nil {
            return 0, 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, 0, &repository.TransientError{Op: "commit remove shows", Err: err}
    }
    committed = true
    showsRemoved = int64(len(ids))
    if showsRemoved > 0 && s.events != nil {
        s.events.ShowsRemoved(ctx, cinemaID, date, showsRemoved, bookingsCancelled)
    }
    return showsRemoved, bookingsCancelled, nil
}
