package repository

import (
	"database/sql"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/repository/mysql"
	"github.com/OtoGahona/Evaluation/internal/repository/postgres"
	"github.com/OtoGahona/Evaluation/internal/repository/sqlite"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// Compile-time checks to ensure all Factory implementations satisfy DatabaseFactory interface
// Vérifications à la compilation pour s'assurer que toutes les implémentations de Factory satisfont l'interface DatabaseFactory
var (
	_ DatabaseFactory = (*sqlite.Factory)(nil)
	_ DatabaseFactory = (*mysql.Factory)(nil)
	_ DatabaseFactory = (*postgres.Factory)(nil)
)

// factoryRegistry holds all database factories / Registre de toutes les factories de BD
var factoryRegistry = map[string]DatabaseFactory{
	"sqlite":     &sqlite.Factory{},
	"sqlite3":    &sqlite.Factory{},
	"mysql":      &mysql.Factory{},
	"postgres":   &postgres.Factory{},
	"postgresql": &postgres.Factory{},
}

// Adapter hands out persistence contexts and repositories over one pool
// Fournit les contextes de persistance et les repositories sur un pool
type Adapter struct {
	db      *sql.DB
	factory DatabaseFactory
	options []store.Option
}

// NewAdapter creates repository adapter / Crée l'adapteur de repositories
func NewAdapter(db *sql.DB, driver string, opts ...store.Option) *Adapter {
	factory := factoryRegistry[strings.ToLower(driver)]
	if factory == nil {
		factory = &sqlite.Factory{} // default fallback
	}

	return &Adapter{
		db:      db,
		factory: factory,
		options: opts,
	}
}

// Dialect returns the dialect of the configured driver / Retourne le dialecte du driver configuré
func (a *Adapter) Dialect() store.Dialect {
	return a.factory.Dialect()
}

// NewContext opens a unit of work; use one per request / Ouvre une unité de travail, une par requête
func (a *Adapter) NewContext(opts ...store.Option) *store.Context {
	all := append(append([]store.Option{}, a.options...), opts...)
	return store.New(a.db, a.factory.Dialect(), all...)
}

// ClienteRepository returns a cliente repository bound to uow / Retourne un repository client lié à uow
func (a *Adapter) ClienteRepository(uow *store.Context) *ClienteRepository {
	return NewClienteRepository(uow)
}

// ProductoRepository returns a producto repository bound to uow / Retourne un repository produit lié à uow
func (a *Adapter) ProductoRepository(uow *store.Context) *ProductoRepository {
	return NewProductoRepository(uow)
}
