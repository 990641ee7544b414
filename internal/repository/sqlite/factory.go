package sqlite

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Factory implements DatabaseFactory for SQLite / Implémente DatabaseFactory pour SQLite
// The compile-time check is in adapter.go to avoid import cycles
// La vérification à la compilation est dans adapter.go pour éviter les cycles d'imports
type Factory struct{}

// Dialect returns the SQLite dialect / Retourne le dialecte SQLite
func (f *Factory) Dialect() store.Dialect {
	return Dialect{}
}

