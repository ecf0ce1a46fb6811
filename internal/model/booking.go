package model

import "time"

// Booking status values as stored in bookings.status.  A booking is
// created Pending, may move to Paid when an external payment settles,
// and moves to Cancelled by the bulk cancel, by payment removal or by
// an administrative show removal.  Cancelled bookings are eventually
// purged by the cleanup operation.
const (
    StatusPending   = "Pending"
    StatusPaid      = "Paid"
    StatusCancelled = "Cancelled"
)

// Booking represents a row in the `bookings` table.  A booking owns
// zero or more ShowSeats through their BookingID back-reference; the
// Seats field is the count declared at creation time and is not
// reconciled against attached ShowSeat rows (attachment is the
// caller's responsibility, one AssignSeat call per seat).
//
// Fields:
//  ID       – primary key identifier (bid).
//  Status   – one of Pending, Paid, Cancelled.
//  DateTime – when the booking was placed.
//  Seats    – declared number of seats.
//  ShowID   – the show being booked (sid).
//  Email    – email of the owning user.
type Booking struct {
    ID       uint64    // bookings.bid
    Status   string    // bookings.status
    DateTime time.Time // bookings.bdatetime
    Seats    uint32    // bookings.seats
    ShowID   uint64    // bookings.sid
    Email    string    // bookings.email
}
