package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
)

func newTrend(t *testing.T) *TrendService {
	return NewTrendService(fixtureDataset(t), logging.NewNop(), testMetrics())
}

func TestFitVisitors(t *testing.T) {
	series := []models.YearCount{
		{Year: 2020, Visitors: 100, Present: true},
		{Year: 2021, Present: false},
		{Year: 2022, Visitors: 300, Present: true},
	}
	fit, ok := fitVisitors(series)
	require.True(t, ok)
	assert.InDelta(t, 100.0, fit.Beta, 1e-6)
	assert.InDelta(t, 500.0, fit.at(2024), 1e-6)
	assert.Equal(t, []int{2023, 2024, 2025}, futureYears(series))

	_, ok = fitVisitors(series[:2])
	assert.False(t, ok)
}

func TestTrendService_PredictByCategory(t *testing.T) {
	svc := newTrend(t)

	got, err := svc.PredictByCategory(context.Background(), "goa")
	require.NoError(t, err)
	assert.Equal(t, "goa", got.State)
	require.Len(t, got.CategoryPredictions, 2)

	beach := got.CategoryPredictions["Beach"]
	assert.Equal(t, 4.6, beach.AverageTouristRating)
	assert.InDelta(t, 3680, beach.PredictedVisitorsByYear["2026"], 1)
	assert.InDelta(t, 4140, beach.PredictedVisitorsByYear["2027"], 1)
	assert.InDelta(t, 4600, beach.PredictedVisitorsByYear["2028"], 1)

	heritage := got.CategoryPredictions["Heritage"]
	assert.Equal(t, 4.05, heritage.AverageTouristRating)
	assert.InDelta(t, 3240, heritage.PredictedVisitorsByYear["2026"], 1)
}

func TestTrendService_PredictByCategoryTwoPoints(t *testing.T) {
	svc := newTrend(t)

	got, err := svc.PredictByCategory(context.Background(), "Himachal Pradesh")
	require.NoError(t, err)

	hill := got.CategoryPredictions["Hill Station"]
	// 2000 in 2020, 4000 in 2025: 400 per year
	assert.InDelta(t, int(4400*4.4/5), hill.PredictedVisitorsByYear["2026"], 1)
}

func TestTrendService_PredictByCategoryInsufficientHistory(t *testing.T) {
	svc := newTrend(t)

	got, err := svc.PredictByCategory(context.Background(), "Uttar Pradesh")
	require.NoError(t, err)
	assert.NotNil(t, got.CategoryPredictions)
	assert.Empty(t, got.CategoryPredictions)
}

func TestTrendService_PredictByCategoryNotFound(t *testing.T) {
	svc := newTrend(t)

	for _, state := range []string{"Atlantis", "Madhya Pradesh"} {
		_, err := svc.PredictByCategory(context.Background(), state)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, state)
	}
}

func TestTrendService_PredictForCategory(t *testing.T) {
	svc := newTrend(t)

	got, err := svc.PredictForCategory(context.Background(), "Himachal Pradesh", "hill station")
	require.NoError(t, err)
	assert.Equal(t, "hill station", got.Category)
	assert.Equal(t, ModelAccuracy, got.ModelAccuracy)

	require.Len(t, got.HistoricalData, 6)
	assert.Equal(t, 2020, got.HistoricalData[0].Year)
	assert.Equal(t, 2000, got.HistoricalData[0].Visitors)
	assert.Equal(t, 0, got.HistoricalData[1].Visitors)

	require.Len(t, got.FuturePredictions, 3)
	assert.Equal(t, 2026, got.FuturePredictions[0].Year)
	assert.InDelta(t, 4400, got.FuturePredictions[0].Visitors, 1)
	assert.InDelta(t, 5200, got.FuturePredictions[2].Visitors, 1)
}

func TestTrendService_PredictForCategoryErrors(t *testing.T) {
	svc := newTrend(t)
	ctx := context.Background()

	_, err := svc.PredictForCategory(ctx, "Goa", "Spiritual")
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	assert.Equal(t, "State or category not found", appErr.Message)

	_, err = svc.PredictForCategory(ctx, "Uttar Pradesh", "Heritage")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}
