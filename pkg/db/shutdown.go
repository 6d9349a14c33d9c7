package db

import (
	"context"
	"errors"
)

// Healthcheck returns a probe that pings the adapter's database.
func Healthcheck(a *Adapter) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		db := a.DB()
		if db == nil {
			return errors.Join(ErrHealthcheckFailed, ErrConnect)
		}
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a function that releases the adapter's connection.
// Use with llama.WithShutdownHook().
//
// Example:
//
//	app := llama.New(
//	    llama.WithShutdownHook(db.Shutdown(adapter)),
//	)
func Shutdown(a *Adapter) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return a.Disconnect()
	}
}
