package model

// ShowSeat links a physical cinema seat to a particular show and
// tracks pricing and the optional owning booking.  There is one
// show_seat record for every seat sold for a show.  A nil BookingID
// means the seat is currently free; at most one booking may hold a
// seat at any instant, which the repository enforces with a
// conditional single-statement claim.
//
// Fields:
//  ID        – primary key identifier (ssid).
//  ShowID    – the show to which this seat belongs (sid).
//  SeatID    – the physical cinema seat (csid).
//  BookingID – owning booking, nil while the seat is free (bid).
//  Price     – price for this seat in cents.
type ShowSeat struct {
    ID        uint64  // show_seats.ssid
    ShowID    uint64  // show_seats.sid
    SeatID    uint64  // show_seats.csid
    BookingID *uint64 // show_seats.bid (nullable)
    Price     uint32  // show_seats.price
}

// Free reports whether the seat is currently unclaimed.
func (s *ShowSeat) Free() bool { return s.BookingID == nil }
