package sqlite

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Dialect is the SQLite flavour of store.Dialect / Variante SQLite de store.Dialect
type Dialect struct{}

var _ store.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

// Rebind keeps '?' placeholders / Conserve les marqueurs '?'
func (Dialect) Rebind(query string) string { return query }

func (Dialect) InsertReturningID() bool { return false }

// SupportsStoredProcedures is false: SQLite has no CALL / SQLite n'a pas de CALL
func (Dialect) SupportsStoredProcedures() bool { return false }

func (Dialect) TranslateError(err error) error { return handleError(err) }
