package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	cgoiri "iri2020/cgo/iri"
	"iri2020/internal/config"
	"iri2020/internal/fetchers"
	"iri2020/internal/iri"
	"iri2020/internal/logger"
	"iri2020/internal/mocks"
	"iri2020/internal/native"
	"iri2020/internal/server"
	"iri2020/internal/storage"
)

// newSolver picks the native library, or the synthetic solver in mockup mode
func newSolver(mockup bool) native.Solver {
	if mockup {
		return mocks.NewMockSolver()
	}
	return cgoiri.New()
}

// setup checks the reference data, initializes the model and builds the server
func setup(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	store, err := storage.NewLocalStorageClient(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	fetcher := fetchers.NewDataFetcher(store, fetchers.Options{
		BaseURL: cfg.ReferenceURL,
		MaxAge:  cfg.ReferenceMaxAge,
		Timeout: cfg.FetchTimeout,
	})

	if !cfg.SkipDataCheck && !cfg.MockupMode {
		if err := fetcher.CheckFiles(ctx); err != nil {
			return nil, fmt.Errorf("reference data check failed: %w", err)
		}
	}

	model := iri.New(newSolver(cfg.MockupMode), iri.Options{DataDir: cfg.DataDir})
	if err := model.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize IRI model: %w", err)
	}

	srv, err := server.NewServer(cfg, model, fetcher)
	if err != nil {
		model.Close()
		return nil, err
	}
	return srv, nil
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("Failed to load .env", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting IRI-2020 service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"data_dir":    cfg.DataDir,
		"mockup_mode": cfg.MockupMode,
		"version":     config.GetVersion(),
	})

	srv, err := setup(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Error("Settings watcher stopped", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
