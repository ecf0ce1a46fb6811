package model

import "time"

// Show represents a scheduled screening of a movie.  The theater (or
// theaters) screening a show are recorded separately in the `plays`
// table; a show itself only knows its movie and schedule.
//
// Fields:
//  ID      – primary key identifier (sid).
//  MovieID – the movie being screened (mvid).
//  Date    – calendar date of the screening.
//  Start   – start time of day, "HH:MM:SS".
//  End     – end time of day, "HH:MM:SS".
type Show struct {
    ID      uint64    // shows.sid
    MovieID uint64    // shows.mvid
    Date    time.Time // shows.sdate
    Start   string    // shows.sttime
    End     string    // shows.edtime
}

// Play associates a show with the theater screening it.  The engine
// treats the association as effectively one theater per show when
// resolving a seat's theater for equivalence matching.
type Play struct {
    ShowID    uint64 // plays.sid
    TheaterID uint64 // plays.tid
}
