package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"iri2020/internal/config"
	"iri2020/internal/fetchers"
	"iri2020/internal/iri"
	"iri2020/internal/logger"
	"iri2020/internal/metrics"
	"iri2020/internal/settings"
)

// Server represents the main application server
type Server struct {
	Config  *config.Config
	Model   *iri.Model
	Fetcher *fetchers.DataFetcher

	log     *logger.Logger
	limiter *rate.Limiter

	mu              sync.RWMutex
	defaults        settings.Settings
	defaultCompiled *settings.Compiled
	settingsSource  string
}

// NewServer creates a new server instance. fetcher may be nil when the
// reference data is managed elsewhere.
func NewServer(cfg *config.Config, model *iri.Model, fetcher *fetchers.DataFetcher) (*Server, error) {
	s := &Server{
		Config:  cfg,
		Model:   model,
		Fetcher: fetcher,
		log:     logger.GetGlobalLogger().WithComponent("server"),
	}

	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		s.log.Info("Evaluation rate limit enabled", map[string]interface{}{
			"rate":  cfg.RateLimit,
			"burst": cfg.RateBurst,
		})
	}

	if cfg.SettingsFile != "" {
		if err := s.LoadSettingsFile(cfg.SettingsFile); err != nil {
			return nil, fmt.Errorf("failed to load settings file: %w", err)
		}
	} else if err := s.SetDefaults(model.LastSettings(), "builtin"); err != nil {
		return nil, fmt.Errorf("failed to compile default settings: %w", err)
	}

	return s, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.log))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/settings", s.HandleSettings)
		r.Post("/settings/compile", s.HandleCompile)
		r.Get("/data", s.HandleDataStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Get("/evaluate", s.HandleEvaluate)
			r.Post("/evaluate", s.HandleEvaluate)
			r.Post("/lowlevel", s.HandleLowLevel)
		})
	})

	return r
}

// Run serves settings-file reloads until ctx is done. It returns
// immediately when no settings file is configured or watching is disabled.
func (s *Server) Run(ctx context.Context) error {
	if s.Config.SettingsFile == "" || !s.Config.WatchSettings {
		return nil
	}
	return s.WatchSettings(ctx, s.Config.SettingsFile)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Model != nil {
		return s.Model.Close()
	}
	return nil
}
