package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"tourism-platform/internal/services"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// WeatherHandler handles weather API endpoints
type WeatherHandler struct {
	responder
	weatherService *services.WeatherService
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherService *services.WeatherService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WeatherHandler {
	return &WeatherHandler{
		responder:      responder{logger: logger, metrics: metricsCollector},
		weatherService: weatherService,
	}
}

// CityWeather handles GET /weather/city/{city}
func (h *WeatherHandler) CityWeather(w http.ResponseWriter, r *http.Request) {
	weather, err := h.weatherService.CityWeather(r.Context(), mux.Vars(r)["city"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, weather, http.StatusOK)
}

// StateWeather handles GET /weather/state/{state}
func (h *WeatherHandler) StateWeather(w http.ResponseWriter, r *http.Request) {
	weather, err := h.weatherService.StateWeather(r.Context(), mux.Vars(r)["state"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, weather, http.StatusOK)
}

// RegisterRoutes registers all weather API routes
func (h *WeatherHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/weather/city/{city}", h.CityWeather).Methods("GET")
	router.HandleFunc("/weather/state/{state}", h.StateWeather).Methods("GET")
}
