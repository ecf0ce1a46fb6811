package repository

import (
    "context"
    "database/sql"
)

// Tx is the transaction scope handed to multi-statement store
// operations. Services depend on this interface rather than *sql.Tx
// so the booking logic can be unit tested against in-memory fakes.
type Tx interface {
    Commit() error
    Rollback() error
}

// Manager begins transactions. The MySQL implementation is TxManager;
// tests supply their own.
type Manager interface {
    Begin(ctx context.Context) (Tx, error)
}

// TxManager implements Manager over a *sql.DB handle.
type TxManager struct {
    db *sql.DB
}

// NewTxManager returns a Manager bound to the given database.
func NewTxManager(db *sql.DB) *TxManager { return &TxManager{db: db} }

// Begin starts a new database transaction. *sql.Tx satisfies Tx
// directly, so no wrapper type is needed.
func (m *TxManager) Begin(ctx context.Context) (Tx, error) {
    tx, err := m.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, transient("begin transaction", err)
    }
    return tx, nil
}

// sqlTx extracts the underlying *sql.Tx from a Tx produced by
// TxManager. Repository methods that require a real database
// transaction call this and fail loudly when handed anything else.
func sqlTx(tx Tx) (*sql.Tx, error) {
    t, ok := tx.(*sql.Tx)
    if !ok {
        return nil, transient("unwrap transaction", sql.ErrTxDone)
    }
    return t, nil
}
