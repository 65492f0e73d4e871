package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/services"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// recommendExample is the usage hint served on GET /recommend.
var recommendExample = map[string]interface{}{
	"interests":  []string{"Hill Station", "Beach"},
	"max_risk":   5.0,
	"min_rating": 4.0,
}

// TourismHandler serves the state, city, discovery and analytics endpoints.
type TourismHandler struct {
	responder
	catalog   *services.CatalogService
	discovery *services.DiscoveryService
	compare   *services.CompareService
	trends    *services.TrendService
	clusters  *services.ClusterService
}

// NewTourismHandler creates a new tourism handler
func NewTourismHandler(
	catalog *services.CatalogService,
	discovery *services.DiscoveryService,
	compare *services.CompareService,
	trends *services.TrendService,
	clusters *services.ClusterService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *TourismHandler {
	return &TourismHandler{
		responder: responder{logger: logger, metrics: metricsCollector},
		catalog:   catalog,
		discovery: discovery,
		compare:   compare,
		trends:    trends,
		clusters:  clusters,
	}
}

// ListStates handles GET /states
func (h *TourismHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.catalog.ListStates(r.Context()), http.StatusOK)
}

// StateDetail handles GET /states/{state}
func (h *TourismHandler) StateDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.StateDetail(r.Context(), mux.Vars(r)["state"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, detail, http.StatusOK)
}

// StateRisk handles GET /states/{state}/risk
func (h *TourismHandler) StateRisk(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.catalog.StateRisk(r.Context(), mux.Vars(r)["state"]), http.StatusOK)
}

// TourismTrends handles GET /states/{state}/tourism_trends
func (h *TourismHandler) TourismTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.catalog.TourismTrends(r.Context(), mux.Vars(r)["state"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, trends, http.StatusOK)
}

// StateCities handles GET /states/{state}/cities
func (h *TourismHandler) StateCities(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.catalog.StateCities(r.Context(), mux.Vars(r)["state"]), http.StatusOK)
}

// CityDetail handles GET /states/{state}/cities/{city}
func (h *TourismHandler) CityDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	city, err := h.catalog.CityDetail(r.Context(), vars["state"], vars["city"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, city, http.StatusOK)
}

// Interests handles GET /interests
func (h *TourismHandler) Interests(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]interface{}{
		"status":    "success",
		"interests": h.catalog.Interests(r.Context()),
	}, http.StatusOK)
}

// SearchPlaces handles GET /search_places
func (h *TourismHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	minRating, err := queryFloat(r, "min_rating", 0)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	maxRisk, err := queryFloat(r, "max_risk", services.DefaultSearchMaxRisk)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	places := h.discovery.SearchPlaces(r.Context(), services.SearchQuery{
		Category:  r.URL.Query().Get("category"),
		Month:     r.URL.Query().Get("month"),
		MinRating: minRating,
		MaxRisk:   maxRisk,
	})
	if len(places) == 0 {
		h.sendJSON(w, map[string]string{"message": services.NoPlacesMessage}, http.StatusOK)
		return
	}
	h.sendJSON(w, places, http.StatusOK)
}

// RecommendExample handles GET /recommend
func (h *TourismHandler) RecommendExample(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]interface{}{
		"message": "Use POST with JSON body like:",
		"example": recommendExample,
	}, http.StatusOK)
}

// Recommend handles POST /recommend
func (h *TourismHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req services.RecommendRequest
	if err := decodeJSON(r, &req); err != nil {
		h.sendError(w, r, apperrors.InvalidInput("Invalid JSON input").WithDetail("details", err.Error()))
		return
	}
	h.sendJSON(w, h.discovery.Recommend(r.Context(), req), http.StatusOK)
}

// CompareStates handles GET and POST /compare/states
func (h *TourismHandler) CompareStates(w http.ResponseWriter, r *http.Request) {
	state1 := r.URL.Query().Get("state1")
	state2 := r.URL.Query().Get("state2")

	if r.Method == http.MethodPost {
		var body struct {
			State1 string `json:"state1"`
			State2 string `json:"state2"`
		}
		if err := decodeJSON(r, &body); err == nil {
			state1, state2 = body.State1, body.State2
		}
	}

	if state1 == "" || state2 == "" {
		h.sendMessage(w, r, "Please provide state1 and state2 query params.", http.StatusBadRequest)
		return
	}

	comparison, err := h.compare.CompareStates(r.Context(), state1, state2)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, comparison, http.StatusOK)
}

// CompareCities handles GET /compare/cities
func (h *TourismHandler) CompareCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state1, city1 := q.Get("state1"), q.Get("city1")
	state2, city2 := q.Get("state2"), q.Get("city2")

	if state1 == "" || city1 == "" || state2 == "" || city2 == "" {
		h.sendMessage(w, r, "Please provide state1, city1, state2, city2 query params.", http.StatusBadRequest)
		return
	}

	comparison, err := h.compare.CompareCities(r.Context(), state1, city1, state2, city2)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, comparison, http.StatusOK)
}

// PredictTrend handles /predict_trend/{state}
func (h *TourismHandler) PredictTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.trends.PredictByCategory(r.Context(), mux.Vars(r)["state"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, trend, http.StatusOK)
}

// PredictCategoryTrend handles /predict_trend/{state}/{category}
func (h *TourismHandler) PredictCategoryTrend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trend, err := h.trends.PredictForCategory(r.Context(), vars["state"], vars["category"])
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	h.sendJSON(w, trend, http.StatusOK)
}

// ClusterStates handles GET /cluster_states
func (h *TourismHandler) ClusterStates(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.clusters.ClusterStates(r.Context()), http.StatusOK)
}

// RegisterRoutes registers all tourism API routes
func (h *TourismHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/states", h.ListStates).Methods("GET")
	router.HandleFunc("/states/{state}", h.StateDetail).Methods("GET")
	router.HandleFunc("/states/{state}/risk", h.StateRisk).Methods("GET")
	router.HandleFunc("/states/{state}/tourism_trends", h.TourismTrends).Methods("GET")
	router.HandleFunc("/states/{state}/cities", h.StateCities).Methods("GET")
	router.HandleFunc("/states/{state}/cities/{city}", h.CityDetail).Methods("GET")
	router.HandleFunc("/interests", h.Interests).Methods("GET")
	router.HandleFunc("/search_places", h.SearchPlaces).Methods("GET")
	router.HandleFunc("/recommend", h.RecommendExample).Methods("GET")
	router.HandleFunc("/recommend", h.Recommend).Methods("POST")
	router.HandleFunc("/compare/states", h.CompareStates).Methods("GET", "POST")
	router.HandleFunc("/compare/cities", h.CompareCities).Methods("GET")
	router.HandleFunc("/predict_trend/{state}", h.PredictTrend).Methods("GET", "POST")
	router.HandleFunc("/predict_trend/{state}/{category}", h.PredictCategoryTrend).Methods("GET", "POST")
	router.HandleFunc("/cluster_states", h.ClusterStates).Methods("GET")
}
