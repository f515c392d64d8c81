package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scenecast/scenecast/internal/adapter/inbound/http"
	celgate "github.com/scenecast/scenecast/internal/adapter/outbound/cel"
	"github.com/scenecast/scenecast/internal/adapter/outbound/memory"
	"github.com/scenecast/scenecast/internal/adapter/outbound/sqlite"
	"github.com/scenecast/scenecast/internal/config"
	"github.com/scenecast/scenecast/internal/domain/auth"
	"github.com/scenecast/scenecast/internal/domain/policy"
	"github.com/scenecast/scenecast/internal/domain/resource"
	"github.com/scenecast/scenecast/internal/domain/session"
	"github.com/scenecast/scenecast/internal/observability"
	"github.com/scenecast/scenecast/internal/requesthandler"
	"github.com/scenecast/scenecast/internal/service"
)

var devMode bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control server",
	Long: `Start the SceneCast control server.

The server loads the scene collection from the configured SQLite
database, listens for handshakes and control requests over HTTP, and
writes the collection back on shutdown.

Examples:
  # Start with config file settings
  scenecast serve

  # Start with a specific config file
  scenecast --config /path/to/scenecast.yaml serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging, trace export)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if devMode {
		viper.Set("dev_mode", true)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Server.LogLevel)
	if configFile := config.FileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	tracing, err := observability.SetupTracing(cfg.DevMode, Version, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	// stop() restores default signal handling so a second Ctrl+C does a
	// hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		return err
	}

	logger.Info("scenecast stopped")
	return nil
}

// run wires all components together and serves until the context is
// cancelled. The collection is written back on the way out.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Scene collection database.
	store, err := sqlite.Open(cfg.Collection.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open collection database: %w", err)
	}
	defer func() { _ = store.Close() }()

	col, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	registry, err := resource.ImportCollection(col)
	if err != nil {
		return fmt.Errorf("failed to restore collection: %w", err)
	}
	logger.Info("collection loaded",
		"path", store.Path(),
		"sources", len(col.Sources),
		"program_scene", col.ProgramScene,
	)

	// Sessions.
	sessionTimeout, err := time.ParseDuration(cfg.Server.SessionTimeout)
	if err != nil {
		sessionTimeout = session.DefaultTimeout
		logger.Warn("invalid session_timeout, using default",
			"value", cfg.Server.SessionTimeout, "default", session.DefaultTimeout.String())
	}
	sessionStore := memory.NewSessionStore()
	sessionStore.StartCleanup(ctx)
	defer sessionStore.Stop()
	sessionService := session.NewSessionService(sessionStore, session.Config{
		Timeout: sessionTimeout,
	})

	// Handshake authentication.
	authenticator := auth.NewAuthenticator(cfg.Auth.PasswordHash)
	if !authenticator.Enabled() {
		logger.Warn("no password configured, handshake authentication is disabled")
	}

	// Request policy gate.
	var gate policy.Gate = policy.AllowAll{}
	if len(cfg.Policy.Rules) > 0 {
		rules := make([]policy.Rule, len(cfg.Policy.Rules))
		for i, rc := range cfg.Policy.Rules {
			rules[i] = policy.Rule{Name: rc.Name, Expression: rc.Expression}
		}
		gate, err = celgate.NewGate(rules)
		if err != nil {
			return fmt.Errorf("failed to compile policy rules: %w", err)
		}
		logger.Info("policy gate enabled", "rules", len(rules))
	}

	handler := requesthandler.NewHandler(registry, Version)
	requestService := service.NewRequestService(handler, gate, logger)

	logger.Info("scenecast starting",
		"version", Version,
		"dev_mode", cfg.DevMode,
		"http_addr", cfg.Server.HTTPAddr,
		"request_types", len(handler.RequestTypes()),
		"auth", authenticator.Enabled(),
	)

	transport := http.NewTransport(requestService, sessionService, authenticator,
		http.WithAddr(cfg.Server.HTTPAddr),
		http.WithLogger(logger),
		http.WithSessionCounter(func() float64 { return float64(sessionStore.Size()) }),
	)

	serveErr := transport.Start(ctx)

	// Persist the collection regardless of how the server exited.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Save(saveCtx, registry.Export()); err != nil {
		logger.Error("failed to save collection", "error", err)
		if serveErr == nil {
			serveErr = err
		}
	} else {
		logger.Info("collection saved", "path", store.Path())
	}

	return serveErr
}
