package mysql

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Dialect is the MySQL flavour of store.Dialect / Variante MySQL de store.Dialect
type Dialect struct{}

var _ store.Dialect = Dialect{}

func (Dialect) Name() string { return "mysql" }

func (Dialect) Rebind(query string) string { return query }

func (Dialect) InsertReturningID() bool { return false }

func (Dialect) SupportsStoredProcedures() bool { return true }

func (Dialect) TranslateError(err error) error { return handleError(err) }
