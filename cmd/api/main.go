package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trek-storefront/internal/config"
	"trek-storefront/internal/db"
	"trek-storefront/internal/httpserver"
	"trek-storefront/internal/logging"
	"trek-storefront/internal/medusa"
	sessionrepo "trek-storefront/internal/repository/session"
	sessionsvc "trek-storefront/internal/service/session"
	"trek-storefront/internal/service/storefront"
)

func main() {
	cfg, envLoaded := config.Load()
	logger, err := logging.New(cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("api")
	if !envLoaded {
		logger.Debug("no .env file found, using process environment")
	}
	if cfg.PublishableKey == "" {
		logger.Warn("MEDUSA_PUBLISHABLE_KEY is empty; store requests will be rejected by the backend")
	}

	ctx := context.Background()

	var sessions sessionrepo.Repository
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()
		sessions = sessionrepo.NewPostgres(pool)
	case config.SessionStoreMemory:
		sessions = sessionrepo.NewMemory()
	default:
		logger.Fatal("unknown session store", zap.String("store", cfg.SessionStore))
	}

	backend := medusa.New(medusa.Options{
		BaseURL:        cfg.BackendURL,
		PublishableKey: cfg.PublishableKey,
		Timeout:        cfg.BackendTimeout,
		Logger:         logger.Named("medusa"),
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Storefront:   storefront.New(backend, logger.Named("storefront")),
		Sessions:     sessionsvc.NewService(sessions, sessionsvc.DefaultTTL, logger.Named("session")),
		Backend:      backend,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("backend", cfg.BackendURL),
			zap.String("session_store", cfg.SessionStore),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
