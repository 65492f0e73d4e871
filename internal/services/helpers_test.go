package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

func fixtureDataset(t *testing.T) *repository.DatasetStore {
	t.Helper()
	dir := filepath.Join("..", "..", "testdata")
	store, err := repository.LoadDataset(context.Background(), repository.DatasetPaths{
		States: filepath.Join(dir, "states.csv"),
		Cities: filepath.Join(dir, "cities.csv"),
		Risk:   filepath.Join(dir, "risk.csv"),
	}, logging.NewNop(), nil)
	require.NoError(t, err)
	return store
}

func testMetrics() *metrics.Collector {
	return metrics.NewCollectorWithRegistry("test", prometheus.NewRegistry())
}

func names(rows []map[string]interface{}) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["city_name"].(string))
	}
	return out
}

func ptr[T any](v T) *T { return &v }
