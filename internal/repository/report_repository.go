package repository

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// ReportRepo serves the read-only reporting queries.  Reports consume
// the store directly and never mutate booking or seat state; their
// results are safe to cache at the HTTP layer.
type ReportRepo struct {
    db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TheatersPlayingShow lists the theaters of a cinema screening the
// given show, ordered by theater id.
func (r *ReportRepo) TheatersPlayingShow(ctx context.Context, showID, cinemaID uint64) ([]model.Theater, error) {
    const q = `SELECT th.tid, th.tname, th.tseats, th.cid
               FROM theaters th
               JOIN plays p ON p.tid = th.tid
               WHERE p.sid = ? AND th.cid = ?
               ORDER BY th.tid`
    rows, err := r.db.QueryContext(ctx, q, showID, cinemaID)
    if err != nil {
        return nil, transient("theaters playing show", err)
    }
    defer rows.Close()
    out := make([]model.Theater, 0)
    for rows.Next() {
        var t model.Theater
        if err := rows.Scan(&t.ID, &t.Name, &t.Seats, &t.CinemaID); err != nil {
            return nil, transient("theaters playing show", err)
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("theaters playing show", err)
    }
    return out, nil
}

// ShowsStartingAt lists shows that begin exactly at the given date
// and time of day.
func (r *ReportRepo) ShowsStartingAt(ctx context.Context, date time.Time, start string) ([]model.Show, error) {
    const q = `SELECT sid, mvid, sdate, sttime, edtime FROM shows WHERE sdate = ? AND sttime = ? ORDER BY sid`
    rows, err := r.db.QueryContext(ctx, q, date.Format("2006-01-02"), start)
    if err != nil {
        return nil, transient("shows starting at", err)
    }
    defer rows.Close()
    out := make([]model.Show, 0)
    for rows.Next() {
        var s model.Show
        if err := rows.Scan(&s.ID, &s.MovieID, &s.Date, &s.Start, &s.End); err != nil {
            return nil, transient("shows starting at", err)
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("shows starting at", err)
    }
    return out, nil
}

// MovieTitlesContaining lists titles containing the given word,
// released strictly after the given year.
func (r *ReportRepo) MovieTitlesContaining(ctx context.Context, word string, releasedAfter int) ([]string, error) {
    const q = `SELECT title FROM movies WHERE title LIKE CONCAT('%', ?, '%') AND rdate > ? ORDER BY title`
    cutoff := fmt.Sprintf("%04d-12-31", releasedAfter)
    rows, err := r.db.QueryContext(ctx, q, word, cutoff)
    if err != nil {
        return nil, transient("movie titles containing", err)
    }
    defer rows.Close()
    titles := make([]string, 0)
    for rows.Next() {
        var t string
        if err := rows.Scan(&t); err != nil {
            return nil, transient("movie titles containing", err)
        }
        titles = append(titles, t)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("movie titles containing", err)
    }
    return titles, nil
}

// PendingBooker identifies a user holding at least one Pending booking.
type PendingBooker struct {
    FirstName string `json:"fname"`
    LastName  string `json:"lname"`
    Email     string `json:"email"`
}

// UsersWithPendingBooking lists each user with a Pending booking once.
func (r *ReportRepo) UsersWithPendingBooking(ctx context.Context) ([]PendingBooker, error) {
    const q = `SELECT DISTINCT u.fname, u.lname, u.email
               FROM users u
               JOIN bookings b ON b.email = u.email
               WHERE b.status = ?
               ORDER BY u.email`
    rows, err := r.db.QueryContext(ctx, q, model.StatusPending)
    if err != nil {
        return nil, transient("users with pending booking", err)
    }
    defer rows.Close()
    out := make([]PendingBooker, 0)
    for rows.Next() {
        var p PendingBooker
        if err := rows.Scan(&p.FirstName, &p.LastName, &p.Email); err != nil {
            return nil, transient("users with pending booking", err)
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("users with pending booking", err)
    }
    return out, nil
}

// ShowListing pairs a show's schedule with its movie metadata.
type ShowListing struct {
    Title    string    `json:"title"`
    Duration uint32    `json:"duration"`
    Date     time.Time `json:"date"`
    Start    string    `json:"start_time"`
}

// ShowsOfMovieAtCinemaBetween lists screenings of a movie at a cinema
// within the inclusive date range.
func (r *ReportRepo) ShowsOfMovieAtCinemaBetween(ctx context.Context, movieID, cinemaID uint64, from, to time.Time) ([]ShowListing, error) {
    const q = `SELECT DISTINCT m.title, m.duration, s.sdate, s.sttime
               FROM shows s
               JOIN movies m ON m.mvid = s.mvid
               JOIN plays p ON p.sid = s.sid
               JOIN theaters th ON th.tid = p.tid
               WHERE s.mvid = ? AND th.cid = ? AND s.sdate BETWEEN ? AND ?
               ORDER BY s.sdate, s.sttime`
    rows, err := r.db.QueryContext(ctx, q, movieID, cinemaID, from.Format("2006-01-02"), to.Format("2006-01-02"))
    if err != nil {
        return nil, transient("shows of movie at cinema", err)
    }
    defer rows.Close()
    out := make([]ShowListing, 0)
    for rows.Next() {
        var l ShowListing
        if err := rows.Scan(&l.Title, &l.Duration, &l.Date, &l.Start); err != nil {
            return nil, transient("shows of movie at cinema", err)
        }
        out = append(out, l)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("shows of movie at cinema", err)
    }
    return out, nil
}

// UserBookingLine is one seat of one booking of a user, with the
// show, theater and seat details a box office receipt would carry.
type UserBookingLine struct {
    BookingID  uint64    `json:"bid"`
    MovieTitle string    `json:"movie_title"`
    ShowDate   time.Time `json:"show_date"`
    Start      string    `json:"start_time"`
    Theater    string    `json:"theater"`
    SeatNumber uint32    `json:"seat_number"`
}

// BookingsOfUser lists every seat currently attached to one of the
// user's bookings, joined out to the movie, show and theater.
func (r *ReportRepo) BookingsOfUser(ctx context.Context, email string) ([]UserBookingLine, error) {
    const q = `SELECT b.bid, m.title, s.sdate, s.sttime, th.tname, cs.sno
               FROM bookings b
               JOIN shows s ON s.sid = b.sid
               JOIN movies m ON m.mvid = s.mvid
               JOIN show_seats ss ON ss.bid = b.bid
               JOIN cinema_seats cs ON cs.csid = ss.csid
               JOIN theaters th ON th.tid = cs.tid
               WHERE b.email = ?
               ORDER BY b.bid, cs.sno`
    rows, err := r.db.QueryContext(ctx, q, email)
    if err != nil {
        return nil, transient("bookings of user", err)
    }
    defer rows.Close()
    out := make([]UserBookingLine, 0)
    for rows.Next() {
        var l UserBookingLine
        if err := rows.Scan(&l.BookingID, &l.MovieTitle, &l.ShowDate, &l.Start, &l.Theater, &l.SeatNumber); err != nil {
            return nil, transient("bookings of user", err)
        }
        out = append(out, l)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("bookings of user", err)
    }
    return out, nil
}
