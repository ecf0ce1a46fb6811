package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// ShowRepo provides the show-level primitives the booking engine
// needs: existence checks for booking creation and the batched
// lookups and deletions behind administrative show removal.
type ShowRepo struct {
    db *sql.DB
}

// NewShowRepo returns a new ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Exists reports whether a show with the given id is present.
func (r *ShowRepo) Exists(ctx context.Context, showID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE sid = ? LIMIT 1`, showID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, transient("show exists", err)
    }
    return true, nil
}

// IDsOnDateTx returns the ids of all shows on the given date that
// play in a theater of the given cinema, resolved through the plays
// join.  The snapshot is taken inside the transaction so the removal
// loop operates on a consistent set.
func (r *ShowRepo) IDsOnDateTx(ctx context.Context, tx Tx, date time.Time, cinemaID uint64) ([]uint64, error) {
    t, err := sqlTx(tx)
    if err != nil {
        return nil, err
    }
    const q = `SELECT DISTINCT s.sid
               FROM shows s
               JOIN plays p ON p.sid = s.sid
               JOIN theaters th ON th.tid = p.tid
               WHERE s.sdate = ? AND th.cid = ?`
    rows, err := t.QueryContext(ctx, q, date.Format("2006-01-02"), cinemaID)
    if err != nil {
        return nil, transient("list shows on date", err)
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, transient("list shows on date", err)
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, transient("list shows on date", err)
    }
    return ids, nil
}

// DeletePlaysTx removes the show↔theater association rows for a show.
func (r *ShowRepo) DeletePlaysTx(ctx context.Context, tx Tx, showID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    if _, err := t.ExecContext(ctx, `DELETE FROM plays WHERE sid = ?`, showID); err != nil {
        return transient("delete plays", err)
    }
    return nil
}

// DeleteTx removes the show row.  Seats must be released and plays
// deleted first; show_seats rows of the show are removed by the
// cascading foreign key.
func (r *ShowRepo) DeleteTx(ctx context.Context, tx Tx, showID uint64) error {
    t, err := sqlTx(tx)
    if err != nil {
        return err
    }
    if _, err := t.ExecContext(ctx, `DELETE FROM shows WHERE sid = ?`, showID); err != nil {
        return transient("delete show", err)
    }
    return nil
}
