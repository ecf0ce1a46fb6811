package model

import "time"

// Movie is a catalog entry in the `movies` table.  The booking
// engine never mutates movies; they exist for show creation and the
// reporting queries.
type Movie struct {
    ID          uint64    // movies.mvid
    Title       string    // movies.title
    ReleaseDate time.Time // movies.rdate
    Country     string    // movies.country
    Description string    // movies.description
    Duration    uint32    // movies.duration (seconds)
    Language    string    // movies.lang
    Genre       string    // movies.genre
}
