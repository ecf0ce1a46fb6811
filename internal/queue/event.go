// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer for the booking engine's
// administrative events.
package queue

// BookingsCancelledEvent is published after a bulk cancel commits.
// Downstream consumers can log or notify without querying the
// primary database.
type BookingsCancelledEvent struct {
    Count       int64  `json:"count"`
    CancelledAt string `json:"cancelled_at"`
}

// PaymentRemovedEvent is published when a payment is removed and its
// booking forced to Cancelled.
type PaymentRemovedEvent struct {
    PaymentID uint64 `json:"payment_id"`
    BookingID uint64 `json:"booking_id"`
    RemovedAt string `json:"removed_at"`
}

// ShowsRemovedEvent is published after an administrative show
// removal commits, carrying both counts the operation reports.
type ShowsRemovedEvent struct {
    CinemaID          uint64 `json:"cinema_id"`
    Date              string `json:"date"`
    ShowsRemoved      int64  `json:"shows_removed"`
    BookingsCancelled int64  `json:"bookings_cancelled"`
    RemovedAt         string `json:"removed_at"`
}
