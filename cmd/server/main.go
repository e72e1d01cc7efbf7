/*
main.go - HTTP server entry point

PURPOSE:
  Starts the bill-splitting REST API. Handles configuration, store
  selection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and configure logging
  2. Parse command-line flags
  3. Open the selected store backend
  4. Load the household book into the handler
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -backend  Store backend: json, sqlite, or memory (default: json)
  -store    Store path: JSON file or SQLite database
            Use ":memory:" with -backend=sqlite for an in-memory DB

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

EXAMPLES:
  # Run against the CLI's JSON file
  ./server -store=billcalc.json

  # Run with SQLite
  ./server -backend=sqlite -store=./data/billcalc.db

ENVIRONMENT:
  Flags default from the environment (flags win):
  PORT, STORE_BACKEND, STORE_PATH, BACKUP_PATH
  LOG_LEVEL: debug, info, warn, error (default: info)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - internal/config: Environment defaults
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/evanjt/billcalc/api"
	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/internal/config"
	"github.com/evanjt/billcalc/pkg/logging"
	"github.com/evanjt/billcalc/store/jsonfile"
	"github.com/evanjt/billcalc/store/memory"
	"github.com/evanjt/billcalc/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "server: loading .env: %v\n", err)
	}
	logging.Setup()

	cfg := config.Load()
	port := flag.Int("port", cfg.Port, "HTTP server port")
	backend := flag.String("backend", cfg.Backend, "store backend: json, sqlite, or memory")
	storePath := flag.String("store", cfg.StorePath, "store path (JSON file or SQLite database)")
	flag.Parse()
	cfg.Port, cfg.Backend, cfg.StorePath = *port, *backend, *storePath

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Backend, "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	handler := api.NewHandler(store)
	if err := handler.LoadBook(context.Background()); err != nil {
		slog.Error("failed to load household book", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d/api", cfg.Port), "backend", cfg.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the configured backend. The returned cleanup closes
// resources that need it (only SQLite holds any open).
func openStore(cfg *config.Config) (household.Store, func(), error) {
	switch cfg.Backend {
	case "json":
		return jsonfile.New(cfg.StorePath, cfg.BackupPath), func() {}, nil
	case "sqlite":
		st, err := sqlite.New(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want json, sqlite, or memory)", cfg.Backend)
	}
}
