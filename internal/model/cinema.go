package model

// Cinema represents a venue containing one or more theaters.  This
// struct corresponds to a row in the `cinemas` table.
//
// Fields:
//  ID       – primary key identifier (cid).
//  Name     – name of the cinema.
//  Theaters – number of theaters in the cinema.
type Cinema struct {
    ID       uint64 // cinemas.cid
    Name     string // cinemas.cname
    Theaters uint32 // cinemas.tnum
}

// Theater represents a single screening room inside a cinema.
//
// Fields:
//  ID       – primary key identifier (tid).
//  Name     – name of the theater within its cinema.
//  Seats    – total number of physical seats.
//  CinemaID – owning cinema (cid).
type Theater struct {
    ID       uint64 // theaters.tid
    Name     string // theaters.tname
    Seats    uint32 // theaters.tseats
    CinemaID uint64 // theaters.cid
}

// CinemaSeat is a physical seat inside a theater.  Show-specific
// availability and pricing live in show_seats.
//
// Fields:
//  ID        – primary key identifier (csid).
//  TheaterID – theater containing the seat (tid).
//  Number    – seat number within the theater.
//  Type      – seat category (e.g. regular, premium).
type CinemaSeat struct {
    ID        uint64 // cinema_seats.csid
    TheaterID uint64 // cinema_seats.tid
    Number    uint32 // cinema_seats.sno
    Type      string // cinema_seats.stype
}
