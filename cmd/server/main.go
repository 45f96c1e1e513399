package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/edudesk/edudesk/internal/bootstrap"
	"github.com/edudesk/edudesk/internal/config"
	"github.com/edudesk/edudesk/internal/database"
	"github.com/edudesk/edudesk/internal/handler"
	"github.com/edudesk/edudesk/internal/naming"
	"github.com/edudesk/edudesk/internal/server"
	"github.com/edudesk/edudesk/internal/store"
)

const (
	serviceName     = "edudesk-server"
	dbMaxConns      = 10
	dbMaxIdleTime   = 5 * time.Minute
	dbMaxLifetime   = 30 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg.LogLevel, cfg.LogFormat, serviceName, handler.Version, cfg.Environment, "")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	st, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "backend", cfg.Storage)
		os.Exit(1)
	}

	names := naming.NewNormalizer(language.English)
	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, st, names)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "port", cfg.Port, "storage", cfg.Storage)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server: srv,
		Store:  st,
	})
}

// newStore builds the persistence backend selected by STORAGE. Postgres
// runs pending migrations before the pool is handed to the store.
func newStore(cfg *config.ServerConfig) (store.Store, error) {
	if cfg.Storage == "memory" {
		slog.Info("Using in-memory storage; data will not survive restarts")
		return store.NewMemory(), nil
	}

	connString := cfg.GetDBConnString()
	if err := database.Migrate(connString); err != nil {
		return nil, err
	}

	pool, err := database.NewPool(connString, dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		return nil, err
	}
	return store.NewPostgres(pool), nil
}
