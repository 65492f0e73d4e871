package services

import (
	"context"
	"fmt"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// CityComparisonFields is the fixed field list of a city comparison.
var CityComparisonFields = []string{
	models.ColTouristRating,
	models.ColRiskIndex,
	models.ColCategory,
	models.ColBestTime,
}

// CompareService builds side-by-side comparisons of two states or two cities.
type CompareService struct {
	data    Dataset
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewCompareService creates a new compare service
func NewCompareService(data Dataset, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *CompareService {
	return &CompareService{
		data:    data,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CompareStates compares every state column except state_name and tourism_*.
// Labels are the names as the caller supplied them. famous_for is returned as
// a tag list and top_city is derived from the cities table.
func (s *CompareService) CompareStates(ctx context.Context, state1, state2 string) (models.Comparison, error) {
	a, errA := resolveState(s.data, state1, "One or both states not found.")
	b, errB := resolveState(s.data, state2, "One or both states not found.")
	if errA != nil || errB != nil {
		return nil, apperrors.NotFound("One or both states not found.")
	}

	out := models.Comparison{}
	for _, row := range []struct {
		label string
		state models.StateRecord
	}{{state1, a}, {state2, b}} {
		for _, col := range row.state.Columns() {
			if col == "" || col == models.ColStateName || models.IsTourismColumn(col) {
				continue
			}
			if out[col] == nil {
				out[col] = map[string]interface{}{}
			}
			out[col][row.label] = row.state.Value(col)
		}

		if out[models.ColFamousFor] == nil {
			out[models.ColFamousFor] = map[string]interface{}{}
		}
		out[models.ColFamousFor][row.label] = row.state.FamousFor()

		if out["top_city"] == nil {
			out["top_city"] = map[string]interface{}{}
		}
		out["top_city"][row.label] = topCity(citiesInState(s.data, row.state.Name))
	}

	return out, nil
}

// CompareCities compares the fixed city field list. Labels are "<city>, <state>".
func (s *CompareService) CompareCities(ctx context.Context, state1, city1, state2, city2 string) (models.Comparison, error) {
	a, okA := lookupCity(s.data, state1, city1)
	b, okB := lookupCity(s.data, state2, city2)
	if !okA || !okB {
		return nil, apperrors.NotFound("One or both cities not found.")
	}

	label1 := fmt.Sprintf("%s, %s", city1, state1)
	label2 := fmt.Sprintf("%s, %s", city2, state2)

	out := make(models.Comparison, len(CityComparisonFields))
	for _, field := range CityComparisonFields {
		out[field] = map[string]interface{}{
			label1: a.Value(field),
			label2: b.Value(field),
		}
	}
	return out, nil
}

// topCity picks the highest rated city among cities. Ties go to the earlier
// row; unrated rows are ignored.
func topCity(cities []models.CityRecord) string {
	best := -1
	for i, c := range cities {
		if !c.HasRating {
			continue
		}
		if best < 0 || c.Rating > cities[best].Rating {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return cities[best].Name
}
