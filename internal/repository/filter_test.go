package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourism-platform/internal/models"
)

func cityNames(cities []models.CityRecord) []string {
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = c.Name
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestFilterCities(t *testing.T) {
	cities := loadFixture(t).Cities()

	tests := []struct {
		name   string
		filter CityFilter
		want   []string
	}{
		{
			name:   "no predicates returns everything",
			filter: CityFilter{},
			want:   cityNames(cities),
		},
		{
			name:   "category is case-insensitive",
			filter: CityFilter{Category: ptr("beach")},
			want:   []string{"Panaji", "Calangute", "Kochi", "Kovalam"},
		},
		{
			name:   "raw risk ceiling",
			filter: CityFilter{Category: ptr("Beach"), MaxRisk: ptr(0.4)},
			want:   []string{"Panaji", "Calangute"},
		},
		{
			name:   "scaled risk ceiling",
			filter: CityFilter{Categories: []string{"Beach"}, MaxRisk: ptr(5.0), RiskScale: RiskScaleTen},
			want:   []string{"Panaji", "Calangute", "Kovalam"},
		},
		{
			name:   "interest membership",
			filter: CityFilter{Categories: []string{"hill station", "Spiritual"}},
			want:   []string{"Munnar", "Shimla", "Varanasi", "Gangtok"},
		},
		{
			name:   "rating floor",
			filter: CityFilter{MinRating: ptr(4.8)},
			want:   []string{"Munnar", "Jaipur", "Udaipur", "Agra"},
		},
		{
			name:   "month matches either column",
			filter: CityFilter{Month: ptr("APR")},
			want:   []string{"Gangtok"},
		},
		{
			name:   "month via best time text",
			filter: CityFilter{Month: ptr("june")},
			want:   []string{"Shimla", "Manali"},
		},
		{
			name:   "nothing matches",
			filter: CityFilter{Category: ptr("Desert")},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cityNames(FilterCities(cities, tt.filter)))
		})
	}
}

func TestFilterCities_MissingRatingNeverPasses(t *testing.T) {
	cities := []models.CityRecord{
		{Name: "Unrated", Category: "Beach", HasRisk: true, Risk: 0.1},
		{Name: "Rated", Category: "Beach", HasRating: true, Rating: 3, HasRisk: true, Risk: 0.1},
	}

	got := FilterCities(cities, CityFilter{MinRating: ptr(0.0)})

	assert.Equal(t, []string{"Rated"}, cityNames(got))
}

func TestSortByRatingThenRisk(t *testing.T) {
	cities := FilterCities(loadFixture(t).Cities(), CityFilter{Categories: []string{"Beach", "Heritage"}})

	SortByRatingThenRisk(cities)

	assert.Equal(t,
		[]string{"Agra", "Udaipur", "Jaipur", "Calangute", "Kovalam", "Kochi", "Panaji", "Old Goa", "Panaji"},
		cityNames(cities),
	)
}
