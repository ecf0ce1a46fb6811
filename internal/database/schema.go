package database

import (
    "context"
    "database/sql"
    "fmt"
)

// schema lists the tables in dependency order.  show_seats.bid is
// nullable and set NULL when its booking row is deleted, so a purged
// booking can never leave a seat pointing at a missing row; show rows
// cascade into their seat inventory.  bookings.sid deliberately has
// no foreign key: administrative show removal force-cancels bookings
// but keeps their rows, so a cancelled booking outlives its show and
// a restricting FK would block the show delete.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        email   VARCHAR(255) NOT NULL,
        lname   VARCHAR(100) NOT NULL,
        fname   VARCHAR(100) NOT NULL,
        phone   VARCHAR(32)  NOT NULL,
        pwd     VARCHAR(255) NOT NULL,
        PRIMARY KEY (email)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS cinemas (
        cid     BIGINT UNSIGNED NOT NULL,
        cname   VARCHAR(255) NOT NULL,
        tnum    INT UNSIGNED NOT NULL DEFAULT 0,
        PRIMARY KEY (cid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS theaters (
        tid     BIGINT UNSIGNED NOT NULL,
        tname   VARCHAR(255) NOT NULL,
        tseats  INT UNSIGNED NOT NULL DEFAULT 0,
        cid     BIGINT UNSIGNED NOT NULL,
        PRIMARY KEY (tid),
        CONSTRAINT fk_theaters_cinema FOREIGN KEY (cid) REFERENCES cinemas(cid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS movies (
        mvid        BIGINT UNSIGNED NOT NULL,
        title       VARCHAR(255) NOT NULL,
        rdate       DATE NOT NULL,
        country     VARCHAR(100) NOT NULL DEFAULT '',
        description TEXT,
        duration    INT UNSIGNED NOT NULL DEFAULT 0,
        lang        VARCHAR(50) NOT NULL DEFAULT '',
        genre       VARCHAR(100) NOT NULL DEFAULT '',
        PRIMARY KEY (mvid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS shows (
        sid     BIGINT UNSIGNED NOT NULL,
        mvid    BIGINT UNSIGNED NOT NULL,
        sdate   DATE NOT NULL,
        sttime  TIME NOT NULL,
        edtime  TIME NOT NULL,
        PRIMARY KEY (sid),
        KEY idx_shows_date_time (sdate, sttime),
        CONSTRAINT fk_shows_movie FOREIGN KEY (mvid) REFERENCES movies(mvid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS plays (
        sid     BIGINT UNSIGNED NOT NULL,
        tid     BIGINT UNSIGNED NOT NULL,
        PRIMARY KEY (sid, tid),
        CONSTRAINT fk_plays_show FOREIGN KEY (sid) REFERENCES shows(sid) ON DELETE CASCADE,
        CONSTRAINT fk_plays_theater FOREIGN KEY (tid) REFERENCES theaters(tid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS cinema_seats (
        csid    BIGINT UNSIGNED NOT NULL,
        tid     BIGINT UNSIGNED NOT NULL,
        sno     INT UNSIGNED NOT NULL,
        stype   VARCHAR(50) NOT NULL DEFAULT 'REGULAR',
        PRIMARY KEY (csid),
        UNIQUE KEY uq_cinema_seats_theater_no (tid, sno),
        CONSTRAINT fk_cinema_seats_theater FOREIGN KEY (tid) REFERENCES theaters(tid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS bookings (
        bid       BIGINT UNSIGNED NOT NULL,
        status    VARCHAR(20) NOT NULL,
        bdatetime DATETIME NOT NULL,
        seats     INT UNSIGNED NOT NULL DEFAULT 0,
        sid       BIGINT UNSIGNED NOT NULL,
        email     VARCHAR(255) NOT NULL,
        PRIMARY KEY (bid),
        KEY idx_bookings_status (status),
        KEY idx_bookings_show (sid),
        CONSTRAINT fk_bookings_user FOREIGN KEY (email) REFERENCES users(email)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS show_seats (
        ssid    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        sid     BIGINT UNSIGNED NOT NULL,
        csid    BIGINT UNSIGNED NOT NULL,
        bid     BIGINT UNSIGNED NULL,
        price   INT UNSIGNED NOT NULL DEFAULT 0,
        PRIMARY KEY (ssid),
        UNIQUE KEY uq_show_seats_show_seat (sid, csid),
        KEY idx_show_seats_booking (bid),
        CONSTRAINT fk_show_seats_show FOREIGN KEY (sid) REFERENCES shows(sid) ON DELETE CASCADE,
        CONSTRAINT fk_show_seats_seat FOREIGN KEY (csid) REFERENCES cinema_seats(csid),
        CONSTRAINT fk_show_seats_booking FOREIGN KEY (bid) REFERENCES bookings(bid) ON DELETE SET NULL
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS payments (
        pid       BIGINT UNSIGNED NOT NULL,
        bid       BIGINT UNSIGNED NOT NULL,
        pmethod   VARCHAR(50) NOT NULL DEFAULT '',
        pdatetime DATETIME NOT NULL,
        amount    INT UNSIGNED NOT NULL DEFAULT 0,
        PRIMARY KEY (pid),
        UNIQUE KEY uq_payments_booking (bid),
        CONSTRAINT fk_payments_booking FOREIGN KEY (bid) REFERENCES bookings(bid)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Statements are idempotent
// so the server can run it on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("ensure schema: %w", err)
        }
    }
    return nil
}
