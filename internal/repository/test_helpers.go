package repository

import (
	"database/sql"
	"time"

	"github.com/OtoGahona/Evaluation/internal/repository/sqlite"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
)

// SQLiteSchema mirrors migrations/sqlite for in-memory tests / Reflète migrations/sqlite pour les tests en mémoire
const SQLiteSchema = `
CREATE TABLE clientes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre TEXT NOT NULL,
	apellido TEXT NOT NULL,
	email TEXT NOT NULL,
	telefono TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP
);
CREATE UNIQUE INDEX ux_clientes_email ON clientes (email COLLATE NOCASE);

CREATE TABLE productos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre TEXT NOT NULL,
	descripcion TEXT,
	precio DECIMAL(18,2) NOT NULL CHECK (precio >= 0),
	stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP
);
CREATE UNIQUE INDEX ux_productos_nombre ON productos (nombre COLLATE NOCASE);
`

// NewSQLiteContext creates a SQLite persistence context for tests / Crée un contexte SQLite pour les tests
func NewSQLiteContext(database *sql.DB, now func() time.Time, opts ...store.Option) *store.Context {
	return store.New(database, sqlite.Dialect{}, append([]store.Option{store.WithClock(now)}, opts...)...)
}
