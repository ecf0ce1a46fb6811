package repository

import (
    "context"
    "database/sql"
    "errors"
    "strconv"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// CatalogRepo handles catalog writes: movies, shows and their theater
// associations.  These are plain inserts with no cross-entity
// invariants beyond key uniqueness; the booking engine treats the
// catalog as read-only.
type CatalogRepo struct {
    db *sql.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// MovieExists reports whether a movie with the given id is present.
func (r *CatalogRepo) MovieExists(ctx context.Context, movieID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE mvid = ? LIMIT 1`, movieID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, transient("movie exists", err)
    }
    return true, nil
}

// TheaterExists reports whether a theater with the given id is present.
func (r *CatalogRepo) TheaterExists(ctx context.Context, theaterID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE tid = ? LIMIT 1`, theaterID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, transient("theater exists", err)
    }
    return true, nil
}

// InsertMovie creates a movie catalog row.
func (r *CatalogRepo) InsertMovie(ctx context.Context, m *model.Movie) error {
    const q = `INSERT INTO movies (mvid, title, rdate, country, description, duration, lang, genre)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        m.ID, m.Title, m.ReleaseDate.Format("2006-01-02"), m.Country, m.Description, m.Duration, m.Language, m.Genre)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "mvid", Value: strconv.FormatUint(m.ID, 10)}
    }
    if err != nil {
        return transient("insert movie", err)
    }
    return nil
}

// InsertShowTx creates a show row within the transaction.
func (r *CatalogRepo) InsertShowTx(ctx context.Context, tx Tx, s *model.Show) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    const q = `INSERT INTO shows (sid, mvid, sdate, sttime, edtime) VALUES (?, ?, ?, ?, ?)`
    _, err = t.ExecContext(ctx, q, s.ID, s.MovieID, s.Date.Format("2006-01-02"), s.Start, s.End)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "sid", Value: strconv.FormatUint(s.ID, 10)}
    }
    if err != nil {
        return transient("insert show", err)
    }
    return nil
}

// InsertPlayTx records which theater screens the show.
func (r *CatalogRepo) InsertPlayTx(ctx context.Context, tx Tx, p *model.Play) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    _, err = t.ExecContext(ctx, `INSERT INTO plays (sid, tid) VALUES (?, ?)`, p.ShowID, p.TheaterID)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "sid/tid", Value: strconv.FormatUint(p.ShowID, 10)}
    }
    if err != nil {
        return transient("insert play", err)
    }
    return nil
}

// SeatIDsOfTheaterTx returns the physical seat ids of a theater,
// used to put every seat of a new showing on sale.
func (r *CatalogRepo) SeatIDsOfTheaterTx(ctx context.Context, tx Tx, theaterID uint64) ([]uint64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return nil, err
    }
    rows, err := t.QueryContext(ctx, `SELECT csid FROM cinema_seats WHERE tid = ? ORDER BY csid`, theaterID)
    if err != nil {
        return nil, transient("list theater seats", err)
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, transient("list theater seats", err)
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("list theater seats", err)
    }
    return ids, nil
}
