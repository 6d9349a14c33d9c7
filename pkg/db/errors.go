package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrUnknownDriver            = errors.New("db: unknown driver")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")

	ErrConnect     = errors.New("db: unable to connect")
	ErrPrepare     = errors.New("db: unable to prepare statement")
	ErrExecute     = errors.New("db: unable to execute statement")
	ErrQuery       = errors.New("db: unable to run query")
	ErrNoStatement = errors.New("db: no prepared statement")
	ErrEmptyBind   = errors.New("db: empty bind")
	ErrTransaction = errors.New("db: transaction failed")

	ErrSetDialect      = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations = errors.New("db migrator: failed to apply migrations")
)

// IsDatabaseError reports whether err was produced by this package.
func IsDatabaseError(err error) bool {
	for _, target := range []error{
		ErrFailedToParseDBConfig, ErrFailedToOpenDBConnection, ErrUnknownDriver,
		ErrHealthcheckFailed, ErrConnect, ErrPrepare, ErrExecute, ErrQuery,
		ErrNoStatement, ErrEmptyBind, ErrTransaction, ErrSetDialect, ErrApplyMigrations,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
