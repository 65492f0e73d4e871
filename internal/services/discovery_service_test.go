package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tourism-platform/pkg/logging"
)

func newDiscovery(t *testing.T) *DiscoveryService {
	return NewDiscoveryService(fixtureDataset(t), logging.NewNop(), testMetrics())
}

func TestDiscoveryService_SearchPlaces(t *testing.T) {
	svc := newDiscovery(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query SearchQuery
		want  []string
	}{
		{
			name:  "category only keeps table order",
			query: SearchQuery{Category: "beach", MaxRisk: DefaultSearchMaxRisk},
			want:  []string{"Panaji", "Calangute", "Kochi", "Kovalam"},
		},
		{
			name:  "month matches either column",
			query: SearchQuery{Category: "Beach", Month: "jan", MaxRisk: DefaultSearchMaxRisk},
			want:  []string{"Panaji", "Calangute", "Kovalam"},
		},
		{
			name:  "risk on the unit scale",
			query: SearchQuery{Category: "Heritage", MaxRisk: 0.2},
			want:  []string{"Old Goa", "Udaipur"},
		},
		{
			name:  "min rating",
			query: SearchQuery{MinRating: 4.8, MaxRisk: DefaultSearchMaxRisk},
			want:  []string{"Munnar", "Jaipur", "Udaipur", "Agra"},
		},
		{
			name:  "nothing matches",
			query: SearchQuery{Category: "Desert", MaxRisk: DefaultSearchMaxRisk},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(svc.SearchPlaces(ctx, tt.query)))
		})
	}
}

func TestDiscoveryService_RecommendBeachLowRisk(t *testing.T) {
	svc := newDiscovery(t)

	got := svc.Recommend(context.Background(), RecommendRequest{
		Interests: []string{"Beach"},
		MaxRisk:   ptr(5.0),
	})

	assert.Equal(t, []string{"Calangute", "Kovalam", "Panaji"}, names(got.Recommendations))
	assert.Equal(t, 3, got.Count)
	assert.Empty(t, got.Message)
}

func TestDiscoveryService_RecommendDefaultsAndTruncation(t *testing.T) {
	svc := newDiscovery(t)

	got := svc.Recommend(context.Background(), RecommendRequest{
		Interests: []string{"beach", "Heritage", "Hill Station", "Adventure", "Spiritual"},
	})

	assert.Equal(t, maxRecommendations, got.Count)
	assert.Len(t, got.Recommendations, maxRecommendations)
	assert.Equal(t, "Agra", got.Recommendations[0]["city_name"])
}

func TestDiscoveryService_RecommendNoMatches(t *testing.T) {
	svc := newDiscovery(t)

	got := svc.Recommend(context.Background(), RecommendRequest{
		Interests: []string{"Beach"},
		MinRating: ptr(4.9),
	})

	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
	assert.Equal(t, 0, got.Count)
	assert.Equal(t, NoRecommendationsMessage, got.Message)
}

func TestDiscoveryService_RecommendWithoutInterests(t *testing.T) {
	svc := newDiscovery(t)

	got := svc.Recommend(context.Background(), RecommendRequest{Month: "may"})
	assert.Equal(t, []string{"Munnar", "Manali", "Shimla", "Gangtok"}, names(got.Recommendations))
}
