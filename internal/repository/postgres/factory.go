package postgres

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Factory implements DatabaseFactory for PostgreSQL / Implémente DatabaseFactory pour PostgreSQL
type Factory struct{}

// Dialect returns the PostgreSQL dialect / Retourne le dialecte PostgreSQL
func (f *Factory) Dialect() store.Dialect {
	return Dialect{}
}
