package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/beismanmaps/server/internal/adapter/inbound/api"
	"github.com/beismanmaps/server/internal/adapter/outbound/memory"
	"github.com/beismanmaps/server/internal/adapter/outbound/sqlitedb"
	"github.com/beismanmaps/server/internal/config"
	"github.com/beismanmaps/server/internal/domain/auth"
	"github.com/beismanmaps/server/internal/domain/ratelimit"
	"github.com/beismanmaps/server/internal/domain/session"
	"github.com/beismanmaps/server/internal/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server",
	Long: `Start the Beisman Maps server.

Serves the JSON API on server.http_addr using the SQLite database at
database.path. Run "beisman-maps initdb" first to create the schema.

Examples:
  # Start with config file settings
  beisman-maps start

  # Start with a specific config file
  beisman-maps --config /path/to/config.yaml start

  # Start in development mode (admin/admin unless configured)
  beisman-maps start --dev`,
	RunE: runStart,
}

var devMode bool

func init() {
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (verbose logging, default credentials)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	// Load configuration (without validation, so CLI flags can override first)
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if devMode {
		cfg.DevMode = true
	}

	// Apply dev defaults (fills admin credentials if empty in dev mode)
	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Create signal context for graceful shutdown.
	// stop() restores default signal handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop() // Restore default: next Ctrl+C = immediate exit.
	}()

	logger := newLogger(cfg)
	logger.Debug("log level configured", "level", cfg.Server.LogLevel, "format", cfg.Server.LogFormat)

	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	if err := run(ctx, cfg, logger); err != nil {
		return err
	}

	logger.Info("beisman-maps stopped")
	return nil
}

// newLogger builds the slog logger from server config.
// DevMode always forces debug level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Server.LogLevel)
	if cfg.DevMode {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Server.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// run wires all components together and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.DevMode {
		logger.Warn("development mode enabled, default credentials may be active")
	}

	// Database
	db, err := sqlitedb.Open(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready", "path", cfg.Database.Path)

	// Sessions
	sessionStore := memory.NewSessionStoreWithConfig(cfg.Session.CleanupInterval)
	if cfg.Session.CleanupInterval > 0 {
		sessionStore.StartCleanup(ctx)
	}
	defer sessionStore.Stop()

	sessionManager := session.NewManager(sessionStore, session.Config{
		TTL:         cfg.Session.TTL,
		RememberTTL: cfg.Session.RememberTTL,
	})

	// Auth
	credValidator := auth.NewValidator(auth.Credentials{
		Username:    cfg.Auth.AdminUsername,
		Password:    cfg.Auth.AdminPassword,
		DisplayName: cfg.Auth.DisplayName,
	})
	gate := auth.NewGate(sessionManager)

	// Login throttling
	var loginLimiter *memory.RateLimiter
	if cfg.Auth.LoginRateLimit > 0 {
		loginLimiter = memory.NewRateLimiter()
		loginLimiter.StartCleanup(ctx)
		defer loginLimiter.Stop()
	}

	// Services
	authService := service.NewAuthService(credValidator, sessionManager, logger)
	mapService := service.NewMapService(db, logger)
	entityService := service.NewEntityService(db, logger)
	statsService := service.NewStatsService(sessionManager, db, db)

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := api.NewMetrics(registry)

	opts := []api.Option{
		api.WithAuthService(authService),
		api.WithMapService(mapService),
		api.WithEntityService(entityService),
		api.WithStatsService(statsService),
		api.WithSessionManager(sessionManager),
		api.WithGate(gate),
		api.WithDBPinger(db),
		api.WithMetrics(metrics, registry),
		api.WithLogger(logger),
		api.WithSecureCookies(cfg.Server.SecureCookies),
		api.WithBuildInfo(&api.BuildInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
		}),
	}
	if loginLimiter != nil {
		opts = append(opts, api.WithLoginLimiter(loginLimiter, ratelimit.Config{
			Rate:   cfg.Auth.LoginRateLimit,
			Burst:  cfg.Auth.LoginRateLimit,
			Period: time.Minute,
		}))
	}
	handler := api.New(opts...)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("beisman-maps starting",
			"version", Version,
			"dev_mode", cfg.DevMode,
			"http_addr", cfg.Server.HTTPAddr,
			"session_ttl", cfg.Session.TTL,
			"remember_ttl", cfg.Session.RememberTTL,
			"cleanup_interval", cfg.Session.CleanupInterval,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
