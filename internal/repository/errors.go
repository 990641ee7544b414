package repository

import (
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/sqlite"
)

// Re-export common errors for convenience / Ré-exporte les erreurs communes
var (
	ErrNoRecord            = db.ErrNoRecord
	ErrDuplicate           = db.ErrDuplicate
	ErrForeignKeyViolation = db.ErrForeignKeyViolation
	ErrCheckViolation      = db.ErrCheckViolation

	// SQLite-specific errors from sqlite package
	ErrBusy   = sqlite.ErrBusy
	ErrLocked = sqlite.ErrLocked
)
