package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// UserRepo provides data access to the users table.  The booking
// engine only checks user existence; creation is exposed for the
// registration collaborator.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Exists reports whether a user with the given email is registered.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ? LIMIT 1`, email).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, transient("user exists", err)
    }
    return true, nil
}

// Insert creates a user row.  PasswordHash must already be hashed by
// the caller; the repository never sees plain passwords.
func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
    const q = `INSERT INTO users (email, lname, fname, phone, pwd) VALUES (?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, u.Email, u.LastName, u.FirstName, u.Phone, u.PasswordHash)
    if isDuplicateKey(err) {
        return &DuplicateKeyError{Field: "email", Value: u.Email}
    }
    if err != nil {
        return transient("insert user", err)
    }
    return nil
}
