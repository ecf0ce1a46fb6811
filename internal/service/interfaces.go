// Package service contains the booking engine: the seat allocator
// and the booking service that owns every cross-entity invariant and
// status transition. The store interfaces are declared here, on the
// consumer side, so the engine can be exercised against in-memory
// fakes; the MySQL repositories in internal/repository satisfy them.
package service

import (
    "context"
    "time"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

// BookingStore is the slice of booking persistence the engine needs.
type BookingStore interface {
    Exists(ctx context.Context, bookingID uint64) (bool, error)
    Insert(ctx context.Context, b *model.Booking) error
    Get(ctx context.Context, bookingID uint64) (*model.Booking, error)
    CancelPending(ctx context.Context) (int64, error)
    CancelTx(ctx context.Context, tx repository.Tx, bookingID uint64) error
    CancelByShowTx(ctx context.Context, tx repository.Tx, showID uint64) (int64, error)
    CancelledIDsTx(ctx context.Context, tx repository.Tx) ([]uint64, error)
    DeleteTx(ctx context.Context, tx repository.Tx, bookingID uint64) error
}

// SeatStore exposes show-seat reads, the conditional claim, and the
// release primitives.
type SeatStore interface {
    Get(ctx context.Context, seatID uint64) (*model.ShowSeat, error)
    GetTx(ctx context.Context, tx repository.Tx, seatID uint64) (*model.ShowSeat, error)
    TheaterOf(ctx context.Context, seatID uint64) (uint64, error)
    TheaterOfTx(ctx context.Context, tx repository.Tx, seatID uint64) (uint64, error)
    FreeByPriceAndTheater(ctx context.Context, price uint32, theaterID uint64) ([]model.ShowSeat, error)
    ClaimIfFree(ctx context.Context, seatID, bookingID uint64) (bool, error)
    ClaimIfFreeTx(ctx context.Context, tx repository.Tx, seatID, bookingID uint64) (bool, error)
    ReleaseTx(ctx context.Context, tx repository.Tx, seatID uint64) error
    ReleaseByBookingTx(ctx context.Context, tx repository.Tx, bookingID uint64) (int64, error)
    ReleaseByShowTx(ctx context.Context, tx repository.Tx, showID uint64) (int64, error)
}

// PaymentStore resolves and removes payments inside a transaction.
type PaymentStore interface {
    BookingIDTx(ctx context.Context, tx repository.Tx, paymentID uint64) (uint64, error)
    DeleteTx(ctx context.Context, tx repository.Tx, paymentID uint64) error
    DeleteByBookingTx(ctx context.Context, tx repository.Tx, bookingID uint64) error
}

// ShowStore covers show existence and administrative removal.
type ShowStore interface {
    Exists(ctx context.Context, showID uint64) (bool, error)
    IDsOnDateTx(ctx context.Context, tx repository.Tx, date time.Time, cinemaID uint64) ([]uint64, error)
    DeletePlaysTx(ctx context.Context, tx repository.Tx, showID uint64) error
    DeleteTx(ctx context.Context, tx repository.Tx, showID uint64) error
}

// UserStore checks that a booking owner is registered.
type UserStore interface {
    Exists(ctx context.Context, email string) (bool, error)
}

// EventPublisher receives notifications after state-changing bulk
// operations commit. Implementations must not block the request path;
// publish failures are logged and swallowed by the implementation.
type EventPublisher interface {
    BookingsCancelled(ctx context.Context, count int64)
    PaymentRemoved(ctx context.Context, paymentID, bookingID uint64)
    ShowsRemoved(ctx context.Context, cinemaID uint64, date time.Time, shows, bookings int64)
}
