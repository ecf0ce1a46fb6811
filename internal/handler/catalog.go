package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
    "github.com/iliyamo/cinema-booking-engine/internal/repository"
    "github.com/iliyamo/cinema-booking-engine/internal/utils"
)

// CatalogHandler groups the external collaborators around the booking
// engine: user registration, movie and showing creation, and payment
// attachment.  These are plain inserts; the engine itself only reads
// the rows they create.
type CatalogHandler struct {
    Users      *repository.UserRepo
    Bookings   *repository.BookingRepo
    Payments   *repository.PaymentRepo
    Catalog    *repository.CatalogRepo
    ShowSeats  *repository.ShowSeatRepo
    Tx         repository.Manager
    BcryptCost int
}

// NewCatalogHandler constructs a CatalogHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCatalogHandler(users *repository.UserRepo, bookings *repository.BookingRepo, payments *repository.PaymentRepo, catalog *repository.CatalogRepo, showSeats *repository.ShowSeatRepo, tx repository.Manager, bcryptCost int) *CatalogHandler {
    if users == nil || bookings == nil || payments == nil || catalog == nil || showSeats == nil || tx == nil {
        panic("nil repository passed to NewCatalogHandler")
    }
    return &CatalogHandler{
        Users:      users,
        Bookings:   bookings,
        Payments:   payments,
        Catalog:    catalog,
        ShowSeats:  showSeats,
        Tx:         tx,
        BcryptCost: bcryptCost,
    }
}

// RegisterUser handles POST /v1/users.  The password is bcrypt-hashed
// before it reaches the store; a duplicate email yields 409.
func (h *CatalogHandler) RegisterUser(c echo.Context) error {
    var body struct {
        Email     string `json:"email"`
        FirstName string `json:"fname"`
        LastName  string `json:"lname"`
        Phone     string `json:"phone"`
        Password  string `json:"password"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Email == "" || body.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
    }
    hash, err := utils.HashPassword(body.Password, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
    }
    u := &model.User{
        Email:        body.Email,
        FirstName:    body.FirstName,
        LastName:     body.LastName,
        Phone:        body.Phone,
        PasswordHash: hash,
    }
    if err := h.Users.Insert(c.Request().Context(), u); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"email": u.Email})
}

// CreateMovie handles POST /v1/admin/movies.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
    var body struct {
        MovieID     uint64 `json:"mvid"`
        Title       string `json:"title"`
        ReleaseDate string `json:"rdate"`
        Country     string `json:"country"`
        Description string `json:"description"`
        Duration    uint32 `json:"duration"`
        Language    string `json:"lang"`
        Genre       string `json:"genre"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.MovieID == 0 || body.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "mvid and title are required"})
    }
    rdate, err := time.Parse("2006-01-02", body.ReleaseDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rdate must be YYYY-MM-DD"})
    }
    m := &model.Movie{
        ID:          body.MovieID,
        Title:       body.Title,
        ReleaseDate: rdate,
        Country:     body.Country,
        Description: body.Description,
        Duration:    body.Duration,
        Language:    body.Language,
        Genre:       body.Genre,
    }
    if err := h.Catalog.InsertMovie(c.Request().Context(), m); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"mvid": m.ID})
}

// CreateShowing handles POST /v1/admin/shows.  It schedules a movie
// showing in an existing theater: the show row, its play association
// and one free show_seat per physical seat of the theater, all priced
// uniformly, inside one transaction.
func (h *CatalogHandler) CreateShowing(c echo.Context) error {
    var body struct {
        ShowID    uint64 `json:"sid"`
        MovieID   uint64 `json:"mvid"`
        TheaterID uint64 `json:"tid"`
        Date      string `json:"sdate"`
        Start     string `json:"sttime"`
        End       string `json:"edtime"`
        Price     uint32 `json:"price"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ShowID == 0 || body.MovieID == 0 || body.TheaterID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "sid, mvid and tid are required"})
    }
    date, err := time.Parse("2006-01-02", body.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "sdate must be YYYY-MM-DD"})
    }
    ctx := c.Request().Context()

    ok, err := h.Catalog.MovieExists(ctx, body.MovieID)
    if err != nil {
        return writeError(c, err)
    }
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    }
    ok, err = h.Catalog.TheaterExists(ctx, body.TheaterID)
    if err != nil {
        return writeError(c, err)
    }
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
    }

    tx, err := h.Tx.Begin(ctx)
    if err != nil {
        return writeError(c, err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    show := &model.Show{ID: body.ShowID, MovieID: body.MovieID, Date: date, Start: body.Start, End: body.End}
    if err := h.Catalog.InsertShowTx(ctx, tx, show); err != nil {
        return writeError(c, err)
    }
    if err := h.Catalog.InsertPlayTx(ctx, tx, &model.Play{ShowID: body.ShowID, TheaterID: body.TheaterID}); err != nil {
        return writeError(c, err)
    }
    seatIDs, err := h.Catalog.SeatIDsOfTheaterTx(ctx, tx, body.TheaterID)
    if err != nil {
        return writeError(c, err)
    }
    seats := make([]model.ShowSeat, 0, len(seatIDs))
    for _, csid := range seatIDs {
        seats = append(seats, model.ShowSeat{ShowID: body.ShowID, SeatID: csid, Price: body.Price})
    }
    if err := h.ShowSeats.InsertBulkTx(ctx, tx, seats); err != nil {
        return writeError(c, err)
    }
    if err := tx.Commit(); err != nil {
        return writeError(c, &repository.TransientError{Op: "commit create showing", Err: err})
    }
    committed = true
    return c.JSON(http.StatusCreated, echo.Map{"sid": body.ShowID, "seats_on_sale": len(seats)})
}

// CreatePayment handles POST /v1/payments.  It attaches a payment to
// an existing booking; the unique index on bid keeps it one payment
// per booking.  Settlement itself happens elsewhere.
func (h *CatalogHandler) CreatePayment(c echo.Context) error {
    var body struct {
        PaymentID uint64 `json:"pid"`
        BookingID uint64 `json:"bid"`
        Method    string `json:"pmethod"`
        Amount    uint32 `json:"amount"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.PaymentID == 0 || body.BookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "pid and bid are required"})
    }
    ctx := c.Request().Context()
    exists, err := h.Bookings.Exists(ctx, body.BookingID)
    if err != nil {
        return writeError(c, err)
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    p := &model.Payment{
        ID:        body.PaymentID,
        BookingID: body.BookingID,
        Method:    body.Method,
        DateTime:  time.Now().UTC(),
        Amount:    body.Amount,
    }
    if err := h.Payments.Insert(ctx, p); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"pid": p.ID, "bid": p.BookingID})
}
