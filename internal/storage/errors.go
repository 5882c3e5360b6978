package storage

import (
	"errors"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pembukuan/internal/core"
)

// mapError turns lock contention into a retryable conflict. Everything else is
// returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return errors.Join(core.ErrBalanceContention, err)
		}
	}
	return err
}
