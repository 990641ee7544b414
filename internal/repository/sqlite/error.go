package sqlite

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrDup      = db.ErrDuplicate                  // Duplicate unique key / Clé unique dupliquée
	ErrNoRecord = db.ErrNoRecord                   // Re-export from db package
	ErrBusy     = db.ErrBusy                       // Database busy / Base de données occupée
	ErrLocked   = errors.New("database is locked") // Database locked / Base de données verrouillée
)

// handleError translates DB errors to typed errors / Traduit les erreurs DB en erreurs typées
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRecord
	}
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return err
	}
	switch code := liteErr.Code(); code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrDup
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return db.ErrForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return db.ErrCheckViolation
	case sqlite3.SQLITE_BUSY:
		slog.Warn("database is busy", "err", liteErr.Error())
		return ErrBusy
	case sqlite3.SQLITE_LOCKED:
		slog.Warn("database is locked", "err", liteErr.Error())
		return ErrLocked
	default:
		slog.Debug("unmapped sqlite error", "code", code, "err", liteErr.Error())
	}
	return err
}
