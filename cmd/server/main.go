package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/OtoGahona/Evaluation/internal/app"
	"github.com/OtoGahona/Evaluation/internal/config"
	"github.com/OtoGahona/Evaluation/internal/logging"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/transport/web"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// init configures standard logger flags / Configure les flags du logger standard
func init() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.LstdFlags)
}

// main is the application entry point / Point d'entrée de l'application
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "evaluation",
		Short:        "Clientes and productos REST API",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	for _, dir := range []db.Direction{db.Up, db.Down} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(dir),
			Short: fmt.Sprintf("Migrate the database %s", dir),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), dir)
			},
		})
	}
	return cmd
}

// loadConfig reads the configuration and installs the logger
// Lit la configuration et installe le logger
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, setupLogger(cfg), nil
}

// serve initializes and starts the HTTP server / Initialise et démarre le serveur HTTP
func serve(parent context.Context) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()

	logStartupInfo(cfg)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	container, err := app.NewContainer(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	handler, stopMiddleware := web.NewMux(web.NewHandler(container), cfg, container)
	defer stopMiddleware()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("shutting down server gracefully")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// migrate runs the migrations alone, without starting the server
// Exécute les migrations seules, sans démarrer le serveur
func migrate(ctx context.Context, dir db.Direction) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()

	if cfg.Database.MigrationsPath == "" {
		return errors.New("database.migrations_path is not set")
	}

	dbType := db.ParseType(cfg.Database.Type)
	database, err := db.NewDatabaseInitializer(dbType).Initialize(ctx, db.DatabaseConfig{
		Type:         dbType,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", dbType, err)
	}
	defer database.Close()

	if err := db.Migrate(database, dbType, cfg.Database.MigrationsPath, dir); err != nil {
		return err
	}
	slog.Info("migrations applied", "db", dbType, "direction", dir, "path", cfg.Database.MigrationsPath)
	return nil
}

// logStartupInfo displays startup information / Affiche les informations de démarrage
func logStartupInfo(conf *config.Config) {
	slog.Info("🚀 Starting application",
		"environment", conf.Environment,
		"port", conf.Server.Port,
		"db", conf.Database.Type,
	)

	if conf.RateLimiter.Enabled {
		slog.Info("🛡️  Rate limiter enabled",
			"global_rps", conf.RateLimiter.RPS,
			"global_burst", conf.RateLimiter.Burst,
		)
	} else {
		slog.Warn("⚠️  Rate limiter is DISABLED")
	}

	slog.Info("⏱️  Timeouts",
		"request", conf.Server.RequestTimeout,
		"command", conf.Database.CommandTimeout,
	)
}

// setupLogger configures structured logger / Configure le logger structuré
//
// The returned func flushes pending Loki entries.
func setupLogger(conf *config.Config) func() {
	var level slog.Level
	switch strings.ToLower(conf.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var consoleHandler slog.Handler
	if strings.ToLower(conf.Logging.Format) == "json" {
		consoleHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: conf.IsProduction(),
		})
	} else {
		consoleHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	if !conf.Logging.LokiEnabled {
		slog.SetDefault(slog.New(consoleHandler))
		slog.Info("📊 Logging configured", "level", level.String(), "format", conf.Logging.Format, "loki_enabled", false)
		return func() {}
	}

	lokiHandler := logging.NewLokiHandler(
		conf.Logging.LokiURL,
		conf.Logging.LokiLabels,
		conf.Logging.LokiBatchSize,
		true,
		level,
	)
	slog.SetDefault(slog.New(&multiHandler{
		consoleHandler: consoleHandler,
		lokiHandler:    lokiHandler,
	}))

	slog.Info("📊 Logging configured",
		"level", level.String(),
		"format", conf.Logging.Format,
		"loki_enabled", true,
		"loki_url", conf.Logging.LokiURL,
	)
	return func() { lokiHandler.Close() }
}

// multiHandler writes to both console and Loki.
type multiHandler struct {
	consoleHandler slog.Handler
	lokiHandler    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.consoleHandler.Enabled(ctx, level) || h.lokiHandler.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.consoleHandler.Handle(ctx, record); err != nil {
		return err
	}
	// Loki errors are reported by the handler itself
	_ = h.lokiHandler.Handle(ctx, record)
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{
		consoleHandler: h.consoleHandler.WithAttrs(attrs),
		lokiHandler:    h.lokiHandler.WithAttrs(attrs),
	}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{
		consoleHandler: h.consoleHandler.WithGroup(name),
		lokiHandler:    h.lokiHandler.WithGroup(name),
	}
}
