package services

import (
	"context"
	"strconv"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// CatalogService answers the plain state and city lookups.
type CatalogService struct {
	data    Dataset
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewCatalogService creates a new catalog service
func NewCatalogService(data Dataset, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *CatalogService {
	return &CatalogService{
		data:    data,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ListStates returns every state name in table order.
func (s *CatalogService) ListStates(ctx context.Context) []string {
	return s.data.StateNames()
}

// StateDetail returns the state row without its tourism_* columns.
func (s *CatalogService) StateDetail(ctx context.Context, query string) (map[string]interface{}, error) {
	state, err := resolveState(s.data, query, "State not found")
	if err != nil {
		return nil, err
	}
	return state.Detail(), nil
}

// StateRisk never fails: a state missing from the risk table yields the
// placeholder report.
func (s *CatalogService) StateRisk(ctx context.Context, query string) models.RiskReport {
	risk, ok := repository.ResolveOne(s.data.Risks(), repository.RiskState, query)
	if !ok {
		s.logger.Debug(ctx, "[RISK_PLACEHOLDER] No risk row for state", logging.Fields{"state": query})
		return models.PlaceholderRisk(trimmed(query))
	}
	return risk.Report()
}

// TourismTrends maps each visitors_<YYYY> year to its count; missing cells read 0.
func (s *CatalogService) TourismTrends(ctx context.Context, query string) (map[string]int, error) {
	state, err := resolveState(s.data, query, "State not found")
	if err != nil {
		return nil, err
	}

	trends := make(map[string]int)
	for _, yc := range state.Visitors() {
		trends[strconv.Itoa(yc.Year)] = yc.Visitors
	}
	return trends, nil
}

// StateCities returns the cities of a state, or an empty list when the
// state matches nothing.
func (s *CatalogService) StateCities(ctx context.Context, query string) []map[string]interface{} {
	return cityDetails(citiesInState(s.data, query))
}

// CityDetail returns one city row.
func (s *CatalogService) CityDetail(ctx context.Context, state, city string) (map[string]interface{}, error) {
	c, ok := lookupCity(s.data, state, city)
	if !ok {
		return nil, apperrors.NotFound("City not found").
			WithDetail("state", state).
			WithDetail("city", city)
	}
	return c.Detail(), nil
}

// Interests lists the distinct city categories, sorted.
func (s *CatalogService) Interests(ctx context.Context) []string {
	return s.data.Categories()
}
