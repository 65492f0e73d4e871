package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const (
	projectionYears = 3
	maxRating       = 5.0
	ModelAccuracy   = "Linear Regression based on historical visitor trends"
)

// linearTrend is an ordinary least-squares line visitors = Alpha + Beta*year.
type linearTrend struct {
	Alpha float64
	Beta  float64
}

func (l linearTrend) at(year int) float64 {
	return l.Alpha + l.Beta*float64(year)
}

// fitVisitors fits the present (year, visitors) points. At least two are needed.
func fitVisitors(series []models.YearCount) (linearTrend, bool) {
	var xs, ys []float64
	for _, yc := range series {
		if !yc.Present {
			continue
		}
		xs = append(xs, float64(yc.Year))
		ys = append(ys, float64(yc.Visitors))
	}
	if len(xs) < 2 {
		return linearTrend{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return linearTrend{Alpha: alpha, Beta: beta}, true
}

// futureYears returns the three years following the latest year column.
func futureYears(series []models.YearCount) []int {
	last := 0
	for _, yc := range series {
		if yc.Year > last {
			last = yc.Year
		}
	}
	years := make([]int, projectionYears)
	for i := range years {
		years[i] = last + i + 1
	}
	return years
}

// TrendService projects visitor counts from the per-year state columns.
type TrendService struct {
	data    Dataset
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewTrendService creates a new trend service
func NewTrendService(data Dataset, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *TrendService {
	return &TrendService{
		data:    data,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// PredictByCategory projects the state's visitors for each city category in
// the state, scaled by the category's average rating over 5 (not clamped).
// Categories that cannot be projected are left out.
func (s *TrendService) PredictByCategory(ctx context.Context, stateQuery string) (*models.StateTrend, error) {
	timer := s.metrics.NewTimer(s.metrics.AnalyticsDuration.WithLabelValues("trend_by_category"))
	defer timer.ObserveDuration()

	state, err := resolveState(s.data, stateQuery, "State not found")
	if err != nil {
		return nil, err
	}
	cities := citiesInState(s.data, state.Name)
	if len(cities) == 0 {
		return nil, stateNotFound(s.data, stateQuery, "State not found")
	}

	result := &models.StateTrend{
		State:               stateQuery,
		CategoryPredictions: map[string]models.CategoryPrediction{},
	}

	series := state.Visitors()
	fit, ok := fitVisitors(series)
	if !ok {
		s.logger.Info(ctx, "[TREND_SKIPPED] Not enough visitor history", logging.Fields{"state": state.Name})
		return result, nil
	}
	years := futureYears(series)

	for _, category := range categoriesInOrder(cities) {
		avg, ok := averageRating(cities, category)
		if !ok {
			continue
		}

		predicted := make(map[string]int, len(years))
		for _, y := range years {
			predicted[strconv.Itoa(y)] = int(fit.at(y) * (avg / maxRating))
		}
		result.CategoryPredictions[category] = models.CategoryPrediction{
			AverageTouristRating:    math.Round(avg*100) / 100,
			PredictedVisitorsByYear: predicted,
		}
	}

	return result, nil
}

// PredictForCategory returns the state's visitor history and an unscaled
// three-year projection, provided the state has cities in category.
func (s *TrendService) PredictForCategory(ctx context.Context, stateQuery, category string) (*models.CategoryTrend, error) {
	timer := s.metrics.NewTimer(s.metrics.AnalyticsDuration.WithLabelValues("trend_for_category"))
	defer timer.ObserveDuration()

	state, err := resolveState(s.data, stateQuery, "State not found")
	if err != nil {
		return nil, err
	}

	inCategory := false
	for _, c := range citiesInState(s.data, state.Name) {
		if strings.EqualFold(c.Category, trimmed(category)) {
			inCategory = true
			break
		}
	}
	if !inCategory {
		return nil, apperrors.NotFound("State or category not found")
	}

	series := state.Visitors()
	fit, ok := fitVisitors(series)
	if !ok {
		return nil, apperrors.InsufficientData("Insufficient data for prediction")
	}

	future := make([]models.YearCount, 0, projectionYears)
	for _, y := range futureYears(series) {
		future = append(future, models.YearCount{Year: y, Visitors: int(fit.at(y))})
	}

	historical := make([]models.YearCount, len(series))
	copy(historical, series)

	return &models.CategoryTrend{
		State:             stateQuery,
		Category:          category,
		HistoricalData:    historical,
		FuturePredictions: future,
		ModelAccuracy:     ModelAccuracy,
	}, nil
}

// categoriesInOrder lists distinct non-empty categories by first appearance.
func categoriesInOrder(cities []models.CityRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cities {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	return out
}

func averageRating(cities []models.CityRecord, category string) (float64, bool) {
	var sum float64
	var n int
	for _, c := range cities {
		if c.Category == category && c.HasRating {
			sum += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
