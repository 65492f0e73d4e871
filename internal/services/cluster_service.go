package services

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const (
	clusterCount    = 4
	clusterSeed     = 42
	clusterRestarts = 10
	clusterMaxIter  = 300
)

// clusterFeatures lists each feature with its accepted column names.
var clusterFeatures = [][]string{
	{"population"},
	{"gdp_inr_crore", "gdp"},
	{"safety_index"},
	{"literacy_rate"},
}

// ClusterService groups states by standardized socio-economic features.
// Results are computed per call and never written back to the dataset.
type ClusterService struct {
	data    Dataset
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewClusterService creates a new cluster service
func NewClusterService(data Dataset, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ClusterService {
	return &ClusterService{
		data:    data,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ClusterStates runs k-means (k-means++ seeding, fixed seed) over the
// z-scored features. States missing any feature are listed in Excluded.
func (s *ClusterService) ClusterStates(ctx context.Context) *models.ClusterResult {
	timer := s.metrics.NewTimer(s.metrics.AnalyticsDuration.WithLabelValues("cluster_states"))
	defer timer.ObserveDuration()

	var names []string
	var points [][]float64
	excluded := []string{}

	for _, st := range s.data.States() {
		row, ok := featureRow(st)
		if !ok {
			excluded = append(excluded, st.Name)
			continue
		}
		names = append(names, st.Name)
		points = append(points, row)
	}

	k := clusterCount
	if len(points) < k {
		k = len(points)
	}

	result := &models.ClusterResult{
		TotalClusters:  k,
		ClusterSummary: []models.ClusterAssignment{},
		Excluded:       excluded,
	}
	if k == 0 {
		return result
	}

	standardize(points)
	labels := kmeans(points, k, rand.New(rand.NewSource(clusterSeed)))

	for i, name := range names {
		result.ClusterSummary = append(result.ClusterSummary, models.ClusterAssignment{
			StateName: name,
			Cluster:   labels[i],
		})
	}

	s.logger.Debug(ctx, "[CLUSTER] States clustered", logging.Fields{
		"clustered": len(names),
		"excluded":  len(excluded),
		"k":         k,
	})
	return result
}

func featureRow(st models.StateRecord) ([]float64, bool) {
	row := make([]float64, len(clusterFeatures))
	for i, aliases := range clusterFeatures {
		found := false
		for _, col := range aliases {
			if v, ok := st.Number(col); ok {
				row[i] = v
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return row, true
}

// standardize z-scores each column in place using the population standard
// deviation. Constant columns become 0.
func standardize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	col := make([]float64, len(points))
	for j := range points[0] {
		for i := range points {
			col[i] = points[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := range points {
			if std == 0 {
				points[i][j] = 0
				continue
			}
			points[i][j] = (points[i][j] - mean) / std
		}
	}
}

// kmeans returns the labels of the lowest-inertia run out of
// clusterRestarts, renumbered by order of first appearance.
func kmeans(points [][]float64, k int, rng *rand.Rand) []int {
	var best []int
	bestInertia := math.Inf(1)

	for run := 0; run < clusterRestarts; run++ {
		centers := seedCenters(points, k, rng)
		labels, inertia := lloyd(points, centers)
		if inertia < bestInertia {
			bestInertia = inertia
			best = labels
		}
	}
	return relabel(best)
}

// seedCenters picks k initial centers with k-means++ weighting.
func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	d2 := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d2[i] = nearestSq(p, centers)
			total += d2[i]
		}
		if total == 0 {
			centers = append(centers, clone(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		pick := len(points) - 1
		for i, d := range d2 {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clone(points[pick]))
	}
	return centers
}

// lloyd iterates assignment and update steps until labels settle. A center
// that loses all of its points stays where it was.
func lloyd(points [][]float64, centers [][]float64) ([]int, float64) {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dim := len(points[0])

	for iter := 0; iter < clusterMaxIter; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centers)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centers[c] = sums[c]
		}
	}

	var inertia float64
	for i, p := range points {
		d := floats.Distance(p, centers[labels[i]], 2)
		inertia += d * d
	}
	return labels, inertia
}

func nearest(p []float64, centers [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, center := range centers {
		if d := floats.Distance(p, center, 2); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func nearestSq(p []float64, centers [][]float64) float64 {
	d := floats.Distance(p, centers[nearest(p, centers)], 2)
	return d * d
}

func relabel(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		m, ok := mapping[l]
		if !ok {
			m = len(mapping)
			mapping[l] = m
		}
		out[i] = m
	}
	return out
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
