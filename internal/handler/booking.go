package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
    "github.com/iliyamo/cinema-booking-engine/internal/service"
)

// BookingHandler exposes the booking engine's operations over HTTP.
// All invariants live in the service; this layer only parses input,
// invokes the operation and renders the result or the typed error.
type BookingHandler struct {
    Service *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Service: svc}
}

// seatView is the JSON shape for a show seat in responses.
type seatView struct {
    SeatID       uint64 `json:"ssid"`
    ShowID       uint64 `json:"sid"`
    CinemaSeatID uint64 `json:"csid"`
    Price        uint32 `json:"price"`
}

// CreateBooking handles POST /v1/bookings.  The booking id is
// caller-supplied, matching the box-office workflow where ids are
// printed on tickets.  Returns 201 on success, 409 when the id is
// taken and 404 when the show or user reference dangles.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var body struct {
        BookingID uint64 `json:"bid"`
        Status    string `json:"status"`
        DateTime  string `json:"bdatetime"`
        Seats     uint32 `json:"seats"`
        ShowID    uint64 `json:"sid"`
        Email     string `json:"email"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.BookingID == 0 || body.ShowID == 0 || body.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "bid, sid and email are required"})
    }
    when := time.Now().UTC()
    if body.DateTime != "" {
        t, err := time.Parse(time.RFC3339, body.DateTime)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "bdatetime must be RFC3339"})
        }
        when = t.UTC()
    }
    status := body.Status
    if status == "" {
        status = model.StatusPending
    }
    b := &model.Booking{
        ID:       body.BookingID,
        Status:   status,
        DateTime: when,
        Seats:    body.Seats,
        ShowID:   body.ShowID,
        Email:    body.Email,
    }
    if err := h.Service.CreateBooking(c.Request().Context(), b); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"bid": b.ID, "status": b.Status})
}

// AssignSeat handles POST /v1/bookings/:id/seats.  It attaches one
// free seat to the booking; a seat already held by another booking
// yields 409 with no state change.
func (h *BookingHandler) AssignSeat(c echo.Context) error {
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        SeatID uint64 `json:"seat_id"`
    }
    if err := c.Bind(&body); err != nil || body.SeatID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
    }
    if err := h.Service.AssignSeat(c.Request().Context(), bookingID, body.SeatID); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bid": bookingID, "seat_id": body.SeatID})
}

// ReassignSeat handles POST /v1/bookings/:id/seats/reassign.  The
// target must be an equivalent free seat (same price, same theater);
// the swap is transactional, so the booking never ends up with
// neither seat.
func (h *BookingHandler) ReassignSeat(c echo.Context) error {
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        FromSeatID uint64 `json:"from_seat_id"`
        ToSeatID   uint64 `json:"to_seat_id"`
    }
    if err := c.Bind(&body); err != nil || body.FromSeatID == 0 || body.ToSeatID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from_seat_id and to_seat_id are required"})
    }
    if err := h.Service.ReassignSeat(c.Request().Context(), bookingID, body.FromSeatID, body.ToSeatID); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "bid":          bookingID,
        "from_seat_id": body.FromSeatID,
        "to_seat_id":   body.ToSeatID,
    })
}

// EquivalentSeats handles GET /v1/seats/:id/equivalent.  It lists the
// free seats a booking could move to from the given seat, ordered by
// seat id.  The interactive layer shows this list and then calls
// ReassignSeat with the user's pick; no lock is held in between.
func (h *BookingHandler) EquivalentSeats(c echo.Context) error {
    seatID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    seats, err := h.Service.Allocator().FindEquivalentFreeSeats(c.Request().Context(), seatID)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]seatView, 0, len(seats))
    for _, s := range seats {
        items = append(items, seatView{SeatID: s.ID, ShowID: s.ShowID, CinemaSeatID: s.SeatID, Price: s.Price})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelPending handles POST /v1/admin/bookings/cancel-pending.
// Idempotent: a repeat call reports zero cancelled.
func (h *BookingHandler) CancelPending(c echo.Context) error {
    n, err := h.Service.CancelPendingBookings(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// ClearCancelled handles POST /v1/admin/bookings/clear-cancelled.  It
// purges cancelled bookings and releases their seats.
func (h *BookingHandler) ClearCancelled(c echo.Context) error {
    n, err := h.Service.ClearCancelledBookings(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"purged": n})
}

// RemovePayment handles DELETE /v1/admin/payments/:id.  Removing a
// payment voids the funded booking regardless of its status.
func (h *BookingHandler) RemovePayment(c echo.Context) error {
    paymentID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
    }
    bookingID, err := h.Service.RemovePayment(c.Request().Context(), paymentID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"payment_id": paymentID, "bid": bookingID, "status": model.StatusCancelled})
}

// RemoveShows handles DELETE /v1/admin/shows?date=YYYY-MM-DD&cinema_id=N.
// It removes the matching shows, force-cancelling their bookings, and
// reports both counts.
func (h *BookingHandler) RemoveShows(c echo.Context) error {
    date, err := time.Parse("2006-01-02", c.QueryParam("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    cinemaID, err := strconv.ParseUint(c.QueryParam("cinema_id"), 10, 64)
    if err != nil || cinemaID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema_id"})
    }
    shows, bookings, err := h.Service.RemoveShowsOnDate(c.Request().Context(), date, cinemaID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "shows_removed":      shows,
        "bookings_cancelled": bookings,
    })
}
