package server

import (
	"net/http"

	"github.com/Temutjin2k/navigator/internal/adapter/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Temutjin2k/navigator/docs"
)

const swaggerInstance = "navigator"

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)
	setupSessionRoutes(mux, routes, m)
}

func setupSessionRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("GET /session", routes.session.GetSession)                         // Session status
	mux.Handle("POST /session/connect", m.RequireAuth(routes.session.Connect))        // Open and register a new connection
	mux.Handle("POST /session/register", m.RequireAuth(routes.session.Register))      // Re-send registration
	mux.Handle("PUT /session/location", m.RequireAuth(routes.session.UpdateLocation)) // Store and push a location sample
	mux.Handle("PUT /session/token", m.RequireAuth(routes.session.SetToken))          // Replace the access token
	mux.Handle("POST /trips", m.RequireAuth(routes.session.StartTrip))                // Request a route
	mux.Handle("POST /trips/end", m.RequireAuth(routes.session.EndTrip))              // End the trip
	mux.HandleFunc("GET /route", routes.session.GetRoute)                             // Active route
}

// setupSwaggerRoutes serves the Swagger UI of the navigator instance
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName(swaggerInstance)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
