package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

// ReportHandler serves the read-only reporting endpoints.  Reports
// never mutate core state, so the router wraps them in the Redis
// response cache.
type ReportHandler struct {
    Reports *repository.ReportRepo
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *repository.ReportRepo) *ReportHandler {
    if reports == nil {
        panic("nil repository passed to NewReportHandler")
    }
    return &ReportHandler{Reports: reports}
}

// TheatersPlayingShow handles GET /v1/reports/shows/:id/theaters?cinema_id=N.
func (h *ReportHandler) TheatersPlayingShow(c echo.Context) error {
    showID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    cinemaID, err := strconv.ParseUint(c.QueryParam("cinema_id"), 10, 64)
    if err != nil || cinemaID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema_id"})
    }
    theaters, err := h.Reports.TheatersPlayingShow(c.Request().Context(), showID, cinemaID)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]echo.Map, 0, len(theaters))
    for _, t := range theaters {
        items = append(items, echo.Map{"tid": t.ID, "tname": t.Name, "tseats": t.Seats, "cid": t.CinemaID})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ShowsStartingAt handles GET /v1/reports/shows?date=YYYY-MM-DD&time=HH:MM:SS.
func (h *ReportHandler) ShowsStartingAt(c echo.Context) error {
    date, err := time.Parse("2006-01-02", c.QueryParam("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    start := c.QueryParam("time")
    if start == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time is required"})
    }
    shows, err := h.Reports.ShowsStartingAt(c.Request().Context(), date, start)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]echo.Map, 0, len(shows))
    for _, s := range shows {
        items = append(items, echo.Map{
            "sid":    s.ID,
            "mvid":   s.MovieID,
            "sdate":  s.Date.Format("2006-01-02"),
            "sttime": s.Start,
            "edtime": s.End,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MovieTitles handles GET /v1/reports/movies?title_contains=love&released_after=2010.
func (h *ReportHandler) MovieTitles(c echo.Context) error {
    word := c.QueryParam("title_contains")
    if word == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title_contains is required"})
    }
    year, err := strconv.Atoi(c.QueryParam("released_after"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid released_after"})
    }
    titles, err := h.Reports.MovieTitlesContaining(c.Request().Context(), word, year)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": titles})
}

// PendingBookers handles GET /v1/reports/users/pending.
func (h *ReportHandler) PendingBookers(c echo.Context) error {
    users, err := h.Reports.UsersWithPendingBooking(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// CinemaShowings handles
// GET /v1/reports/cinemas/:id/shows?mvid=N&from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportHandler) CinemaShowings(c echo.Context) error {
    cinemaID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
    }
    movieID, err := strconv.ParseUint(c.QueryParam("mvid"), 10, 64)
    if err != nil || movieID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mvid"})
    }
    from, err := time.Parse("2006-01-02", c.QueryParam("from"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
    }
    to, err := time.Parse("2006-01-02", c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
    }
    listings, err := h.Reports.ShowsOfMovieAtCinemaBetween(c.Request().Context(), movieID, cinemaID, from, to)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]echo.Map, 0, len(listings))
    for _, l := range listings {
        items = append(items, echo.Map{
            "title":      l.Title,
            "duration":   l.Duration,
            "date":       l.Date.Format("2006-01-02"),
            "start_time": l.Start,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UserBookings handles GET /v1/reports/users/:email/bookings.
func (h *ReportHandler) UserBookings(c echo.Context) error {
    email := c.Param("email")
    if email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
    }
    lines, err := h.Reports.BookingsOfUser(c.Request().Context(), email)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": lines})
}
