package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chrimar3/MVP-Hotel-sub001/app"
	"github.com/chrimar3/MVP-Hotel-sub001/handlers"
	"github.com/chrimar3/MVP-Hotel-sub001/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	reviewHandler := handlers.NewReviewHandler(deps.Engine, deps.Logger)
	metricsHandler := handlers.NewMetricsHandler(deps.Metrics, deps.Cache, deps.Logger)
	alertsHandler := handlers.NewAlertsHandler(deps.AlertRing, deps.Logger)
	cacheHandler := handlers.NewCacheHandler(deps.Cache, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleLiveness)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reviews", reviewHandler.HandleGenerate)
		r.Get("/metrics", metricsHandler.HandleGet)
		r.Get("/alerts", alertsHandler.HandleList)

		r.Route("/cache", func(r chi.Router) {
			r.Delete("/", cacheHandler.HandleClear)
			r.Post("/sweep", cacheHandler.HandleSweep)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
