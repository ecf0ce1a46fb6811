package model

import "time"

// Payment funds a booking while the booking is unresolved.  There is
// at most one payment per booking (payments.bid is unique).  Removing
// a payment always forces the funded booking to Cancelled, regardless
// of its current status.
//
// Fields:
//  ID        – primary key identifier (pid).
//  BookingID – the funded booking (bid), one-to-one.
//  Method    – payment method label.
//  DateTime  – when the payment was made.
//  Amount    – amount in cents.
type Payment struct {
    ID        uint64    // payments.pid
    BookingID uint64    // payments.bid
    Method    string    // payments.pmethod
    DateTime  time.Time // payments.pdatetime
    Amount    uint32    // payments.amount
}
