package services

import (
	"context"

	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const (
	// DefaultSearchMaxRisk is on the raw 0-1 risk_index scale.
	DefaultSearchMaxRisk = 1.0
	// DefaultRecommendMaxRisk is on the 0-10 scale (risk_index*10).
	DefaultRecommendMaxRisk = 10.0
	maxRecommendations      = 10

	NoPlacesMessage          = "No places found matching criteria."
	NoRecommendationsMessage = "No recommendations found matching your preferences."
)

// SearchQuery holds the search_places parameters after defaulting.
type SearchQuery struct {
	Category  string
	Month     string
	MinRating float64
	MaxRisk   float64
}

// RecommendRequest is the recommend body. Nil limits take their defaults.
type RecommendRequest struct {
	Interests []string `json:"interests"`
	Month     string   `json:"month"`
	MaxRisk   *float64 `json:"max_risk"`
	MinRating *float64 `json:"min_rating"`
}

// RecommendResult is the recommend response.
type RecommendResult struct {
	Recommendations []map[string]interface{} `json:"recommendations"`
	Count           int                      `json:"count"`
	Message         string                   `json:"message,omitempty"`
}

// DiscoveryService runs the city search and recommendation filters.
type DiscoveryService struct {
	data    Dataset
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(data Dataset, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *DiscoveryService {
	return &DiscoveryService{
		data:    data,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// SearchPlaces filters cities with the raw 0-1 risk ceiling. Results keep
// table order and are not truncated.
func (s *DiscoveryService) SearchPlaces(ctx context.Context, q SearchQuery) []map[string]interface{} {
	filter := repository.CityFilter{
		MinRating: &q.MinRating,
		MaxRisk:   &q.MaxRisk,
		RiskScale: repository.RiskScaleUnit,
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}
	if q.Month != "" {
		filter.Month = &q.Month
	}

	matches := repository.FilterCities(s.data.Cities(), filter)

	s.logger.Debug(ctx, "[SEARCH] Places filtered", logging.Fields{
		"category": q.Category,
		"month":    q.Month,
		"matches":  len(matches),
	})
	return cityDetails(matches)
}

// Recommend filters by interest membership with the 0-10 risk ceiling, sorts
// by rating (desc) then risk (asc) and keeps the top ten.
func (s *DiscoveryService) Recommend(ctx context.Context, req RecommendRequest) RecommendResult {
	maxRisk := DefaultRecommendMaxRisk
	if req.MaxRisk != nil {
		maxRisk = *req.MaxRisk
	}
	minRating := 0.0
	if req.MinRating != nil {
		minRating = *req.MinRating
	}

	filter := repository.CityFilter{
		Categories: req.Interests,
		MinRating:  &minRating,
		MaxRisk:    &maxRisk,
		RiskScale:  repository.RiskScaleTen,
	}
	if req.Month != "" {
		filter.Month = &req.Month
	}

	matches := repository.FilterCities(s.data.Cities(), filter)
	repository.SortByRatingThenRisk(matches)
	if len(matches) > maxRecommendations {
		matches = matches[:maxRecommendations]
	}

	result := RecommendResult{
		Recommendations: cityDetails(matches),
		Count:           len(matches),
	}
	if len(matches) == 0 {
		result.Message = NoRecommendationsMessage
	}
	return result
}
