package db

import (
	"context"
	"errors"
)

// WithTx executes fn within a database transaction on a's connection.
// fn receives an adapter scoped to the transaction.
// If fn returns an error, the transaction is rolled back.
// If fn panics, the transaction is rolled back and the panic is re-raised.
// If fn succeeds, the transaction is committed.
// Called with an adapter that is already transaction-scoped, fn joins the
// outer transaction.
func WithTx(ctx context.Context, a *Adapter, fn func(tx *Adapter) error) error {
	if a.tx != nil {
		return fn(a)
	}

	if err := a.Connect(ctx); err != nil {
		return err
	}

	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrTransaction, err)
	}

	scoped := &Adapter{
		dialect: a.dialect,
		logger:  a.logger,
		pk:      a.pk,
		db:      a.db,
		tx:      tx,
		q:       tx,
	}

	defer func() {
		if p := recover(); p != nil {
			_ = scoped.Disconnect()
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(scoped); err != nil {
		_ = scoped.Disconnect()
		_ = tx.Rollback()
		return err
	}

	_ = scoped.Disconnect()
	if err := tx.Commit(); err != nil {
		return errors.Join(ErrTransaction, err)
	}
	return nil
}
