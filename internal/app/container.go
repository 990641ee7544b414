package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/OtoGahona/Evaluation/internal/config"
	"github.com/OtoGahona/Evaluation/internal/metrics"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/OtoGahona/Evaluation/internal/repository"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
	"github.com/OtoGahona/Evaluation/internal/service"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

const statsInterval = 15 * time.Second

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	DB      *sql.DB
	DBType  db.DatabaseType
	Adapter *repository.Adapter
	Config  *config.Config
	Metrics *metrics.Metrics

	ctxCancel context.CancelFunc
}

// Scope holds the services of one request, sharing a single persistence context
// Contient les services d'une requête, partageant un même contexte de persistance
type Scope struct {
	Store     *store.Context
	Clientes  ports.ClienteService
	Productos ports.ProductoService
}

// NewContainer initializes application container / Initialise le conteneur de l'application
//
// reg receives the Prometheus collectors; nil means the default registry.
func NewContainer(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Container, error) {
	c := &Container{
		Config: cfg,
		DBType: db.ParseType(cfg.Database.Type),
	}

	// Initialize metrics first (no dependencies)
	c.Metrics = metrics.NewMetrics(reg)

	if err := c.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := c.runMigrations(); err != nil {
		c.Close() // Ensure database connection is closed on migration failure
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	c.initRepositories()
	c.startStatsRoutine()

	return c, nil
}

// initDatabase initializes database connection / Initialise la connexion à la base de données
func (c *Container) initDatabase(ctx context.Context) error {
	dbConfig := db.DatabaseConfig{
		Type:         c.DBType,
		DSN:          c.Config.Database.DSN,
		MaxOpenConns: c.Config.Database.MaxOpenConns,
		MaxIdleConns: c.Config.Database.MaxIdleConns,
	}

	// Use Factory Pattern to create appropriate initializer
	initializer := db.NewDatabaseInitializer(c.DBType)

	database, err := initializer.Initialize(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", c.DBType, err)
	}

	c.DB = database
	return nil
}

// runMigrations applies database migrations / Applique les migrations de base de données
func (c *Container) runMigrations() error {
	if c.Config.Database.MigrationsPath == "" {
		slog.Warn("no migrations path configured, skipping migrations")
		return nil
	}
	return db.Migrate(c.DB, c.DBType, c.Config.Database.MigrationsPath, db.Up)
}

// initRepositories initializes the repository adapter / Initialise l'adapteur de repositories
func (c *Container) initRepositories() {
	// Use Adapter Pattern for clean database abstraction
	c.Adapter = repository.NewAdapter(c.DB, c.DBType.String(),
		store.WithObserver(c.Metrics),
		store.WithCommandTimeout(c.Config.Database.CommandTimeout),
	)
	slog.Info("repositories initialized", "db", c.DBType)
}

// NewScope creates the services for one request / Crée les services d'une requête
func (c *Container) NewScope() *Scope {
	uow := c.Adapter.NewContext()
	opts := []service.Option{
		service.WithRecorder(c.Metrics),
		service.WithMaxPageSize(c.Config.Pagination.MaxPageSize),
	}
	return &Scope{
		Store:     uow,
		Clientes:  service.NewClienteService(c.Adapter.ClienteRepository(uow), opts...),
		Productos: service.NewProductoService(c.Adapter.ProductoRepository(uow), opts...),
	}
}

// Ping checks that the database answers / Vérifie que la base répond
func (c *Container) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// startStatsRoutine refreshes pool metrics until Close / Rafraîchit les métriques du pool jusqu'à Close
func (c *Container) startStatsRoutine() {
	ctx, cancel := context.WithCancel(context.Background())
	c.ctxCancel = cancel

	c.updateDatabaseMetrics()
	go func() {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.updateDatabaseMetrics()
			case <-ctx.Done():
				slog.Debug("database stats goroutine stopped")
				return
			}
		}
	}()
}

// updateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) updateDatabaseMetrics() {
	stats := c.DB.Stats()
	c.Metrics.UpdateDatabaseConnections(stats.OpenConnections)
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	if c.DB != nil {
		slog.Info("closing database")
		return c.DB.Close()
	}
	return nil
}
