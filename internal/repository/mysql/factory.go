package mysql

import (
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Factory implements DatabaseFactory for MySQL / Implémente DatabaseFactory pour MySQL
type Factory struct{}

// Dialect returns the MySQL dialect / Retourne le dialecte MySQL
func (f *Factory) Dialect() store.Dialect {
	return Dialect{}
}
