package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/cyberstore/internal/api/handler"
	"github.com/mcoot/cyberstore/internal/api/middleware"
	basemw "github.com/mcoot/cyberstore/internal/middleware"
	"github.com/mcoot/cyberstore/internal/services/auth"
	"github.com/mcoot/cyberstore/internal/services/catalog"
	"github.com/mcoot/cyberstore/internal/services/export"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
	Exporter       *export.Exporter

	// Registry receives the HTTP and catalog metrics served on /metrics.
	// A nil registry disables metrics.
	Registry *prometheus.Registry
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	var metrics *basemw.Metrics
	if cfg.Registry != nil {
		metrics = basemw.NewMetrics(cfg.Registry)
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	var catalogSize prometheus.Gauge
	if metrics != nil {
		catalogSize = metrics.CatalogSize
	}
	gameHandler := handler.NewGameHandler(cfg.CatalogService, cfg.Exporter, catalogSize, cfg.Logger)
	statsHandler := handler.NewStatsHandler(cfg.CatalogService, cfg.AuthService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := basemw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)
	if metrics != nil {
		api.Use(basemw.Instrument(metrics, routeTemplate))
	}

	// Account routes (no session required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/session", authHandler.Session).Methods(http.MethodGet)

	// Catalog routes (all require a session)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/export", gameHandler.Export).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Update).Methods(http.MethodPatch)
	games.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	statsRoutes := api.PathPrefix("/stats").Subrouter()
	statsRoutes.Use(authMiddleware)
	statsRoutes.HandleFunc("", statsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

// routeTemplate labels metrics by the matched route pattern rather than the raw path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
