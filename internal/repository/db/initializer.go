package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DatabaseConfig holds database connection config / Contient la config de connexion BD
type DatabaseConfig struct {
	Type            DatabaseType
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DatabaseInitializer opens and tunes a connection pool / Ouvre et règle un pool de connexions
type DatabaseInitializer interface {
	Initialize(ctx context.Context, config DatabaseConfig) (*sql.DB, error)
	Type() DatabaseType
}

// InitializerRegistry maps database types to initializer factories / Associe les types de BD aux factories
type InitializerRegistry[T DatabaseInitializer] struct {
	factories map[DatabaseType]func() T
}

// NewInitializerRegistry creates registry / Crée le registre
func NewInitializerRegistry[T DatabaseInitializer]() *InitializerRegistry[T] {
	return &InitializerRegistry[T]{
		factories: make(map[DatabaseType]func() T),
	}
}

// Register registers initializer factory / Enregistre une factory d'initialiseur
func (r *InitializerRegistry[T]) Register(dbType DatabaseType, factory func() T) {
	r.factories[dbType] = factory
}

// Get retrieves initializer / Récupère l'initialiseur
func (r *InitializerRegistry[T]) Get(dbType DatabaseType, fallback func() T) T {
	if factory, exists := r.factories[dbType]; exists {
		return factory()
	}
	return fallback()
}

var initializerRegistry = func() *InitializerRegistry[DatabaseInitializer] {
	registry := NewInitializerRegistry[DatabaseInitializer]()
	registry.Register(MySQL, func() DatabaseInitializer {
		return &sqlInitializer{dbType: MySQL, driver: "mysql", session: []string{
			"SET SESSION sql_mode='TRADITIONAL,NO_AUTO_VALUE_ON_ZERO'",
			"SET time_zone = '+00:00'",
		}}
	})
	registry.Register(PostgreSQL, func() DatabaseInitializer {
		return &sqlInitializer{dbType: PostgreSQL, driver: "postgres", session: []string{
			"SET TIME ZONE 'UTC'",
		}}
	})
	registry.Register(SQLite, newSQLiteInitializer)
	return registry
}()

func newSQLiteInitializer() DatabaseInitializer {
	return &sqlInitializer{dbType: SQLite, driver: "sqlite", session: []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA trusted_schema=OFF;",
	}}
}

// NewDatabaseInitializer creates initializer for database type / Crée l'initialiseur pour le type de BD
func NewDatabaseInitializer(dbType DatabaseType) DatabaseInitializer {
	return initializerRegistry.Get(dbType, newSQLiteInitializer)
}

// sqlInitializer opens a database/sql pool for one driver / Ouvre un pool database/sql pour un driver
type sqlInitializer struct {
	dbType  DatabaseType
	driver  string
	session []string // best-effort statements run after opening
}

func (i *sqlInitializer) Type() DatabaseType {
	return i.dbType
}

func (i *sqlInitializer) Initialize(ctx context.Context, config DatabaseConfig) (*sql.DB, error) {
	database, err := sql.Open(i.driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", i.dbType, err)
	}

	setConnectionPool(database, config)
	if i.dbType == SQLite && strings.Contains(config.DSN, ":memory:") {
		// in-memory databases are per connection
		database.SetMaxOpenConns(1)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", i.dbType, err)
	}

	for _, stmt := range i.session {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			slog.Warn("failed to apply session setting", "db", i.dbType, "stmt", stmt, "err", err)
		}
	}

	slog.Info("database connected", "db", i.dbType)
	return database, nil
}

func setConnectionPool(database *sql.DB, config DatabaseConfig) {
	maxOpen := config.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	maxIdle := config.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	database.SetMaxOpenConns(maxOpen)
	database.SetMaxIdleConns(maxIdle)
	if config.ConnMaxLifetime > 0 {
		database.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
}
