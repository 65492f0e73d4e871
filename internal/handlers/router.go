package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// DatasetCounter reports loaded row counts per table.
type DatasetCounter interface {
	Counts() map[string]int
}

// HealthChecker is anything with a reachability probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SystemHandler serves the root, health and documentation endpoints.
type SystemHandler struct {
	responder
	datasets DatasetCounter
	accounts HealthChecker
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(datasets DatasetCounter, accounts HealthChecker, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SystemHandler {
	return &SystemHandler{
		responder: responder{logger: logger, metrics: metricsCollector},
		datasets:  datasets,
		accounts:  accounts,
	}
}

// Home handles GET /
func (h *SystemHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]string{"message": "Welcome to Tourism Risk Dashboard API"}, http.StatusOK)
}

// HealthCheck handles GET /health. The account store being down degrades the
// service but the dataset endpoints keep working.
func (h *SystemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"datasets":  h.datasets.Counts(),
		"accounts":  "ok",
	}
	code := http.StatusOK

	if err := h.accounts.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK] Account store unreachable", logging.Fields{"error": err.Error()})
		status["status"] = "degraded"
		status["accounts"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, code)
}

// RegisterRoutes registers the root, health, metrics and docs routes
func (h *SystemHandler) RegisterRoutes(router *mux.Router, metricsHandler http.Handler) {
	router.HandleFunc("/", h.Home).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.Handle("/metrics", metricsHandler).Methods("GET")
}

// RouterConfig bundles everything NewRouter wires together.
type RouterConfig struct {
	Tourism *TourismHandler
	Account *AccountHandler
	Weather *WeatherHandler
	System  *SystemHandler

	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
	CORSOrigins    []string
	Logger         *logging.StructuredLogger
	Metrics        *metrics.Collector
}

// NewRouter builds the full middleware chain:
// CORS -> trailing slash -> request context -> recovery -> mux (instrumented).
func NewRouter(cfg RouterConfig) http.Handler {
	base := responder{logger: cfg.Logger, metrics: cfg.Metrics}

	router := mux.NewRouter()
	router.Use(base.instrument)

	cfg.Tourism.RegisterRoutes(router)
	cfg.Account.RegisterRoutes(router)
	cfg.Weather.RegisterRoutes(router)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	cfg.System.RegisterRoutes(router, metricsHandler)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base.sendMessage(w, r, "Not found", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base.sendMessage(w, r, "Method not allowed", http.StatusMethodNotAllowed)
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	var handler http.Handler = router
	handler = Recover(cfg.Logger)(handler)
	handler = RequestContext(cfg.Logger)(handler)
	handler = StripTrailingSlash(handler)
	return corsHandler.Handler(handler)
}
