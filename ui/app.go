// Package ui serves the JSON dashboard API over chi. The app owns an
// immutable panel loaded at startup plus one engine and one sweeper; every
// handler is a thin translation from query parameters to engine calls.
package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cohortlens/adapters/stats/engine"
	"cohortlens/internal/analysis"
	"cohortlens/internal/dataset"
	"cohortlens/internal/logging"
)

// App represents the dashboard API application
type App struct {
	router  *chi.Mux
	table   *dataset.Table
	engine  *engine.Engine
	sweeper *analysis.Sweeper
	log     *logging.Logger

	port string
}

// Config holds the application wiring.
type Config struct {
	Port   string
	Table  *dataset.Table
	Engine *engine.Engine
}

// NewApp creates the dashboard application.
func NewApp(cfg Config) *App {
	app := &App{
		router:  chi.NewRouter(),
		table:   cfg.Table,
		engine:  cfg.Engine,
		sweeper: analysis.NewSweeper(cfg.Engine),
		log:     logging.New("ui"),
		port:    cfg.Port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Get("/api/metrics", a.handleMetrics)
	a.router.Get("/api/summary", a.handleSummary)
	a.router.Get("/api/compare", a.handleCompare)
	a.router.Get("/api/correlate", a.handleCorrelate)
	a.router.Get("/api/anomalies", a.handleAnomalies)
	a.router.Post("/api/sweep", a.handleSweep)

	a.router.Get("/api/export/comparisons.csv", a.handleExportCSV)
	a.router.Get("/api/export/comparisons.xlsx", a.handleExportExcel)
}

// Router exposes the handler tree for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server until it fails.
func (a *App) Start() error {
	addr := ":" + a.port
	log.Printf("Starting cohortlens API server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
