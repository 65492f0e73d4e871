package repository

import (
	"sort"
	"strings"

	"tourism-platform/internal/models"
)

// RiskScale selects how CityFilter.MaxRisk is compared with a city's risk_index.
type RiskScale int

const (
	// RiskScaleUnit compares the raw 0-1 risk_index (search endpoint).
	RiskScaleUnit RiskScale = iota
	// RiskScaleTen compares risk_index*10 against a 0-10 ceiling (recommend endpoint).
	RiskScaleTen
)

// CityFilter defines filters for querying cities. Nil/empty fields are not
// applied; the rest are ANDed. A city with no rating (or risk) never passes
// a rating (or risk) predicate.
type CityFilter struct {
	Category   *string
	Categories []string
	MinRating  *float64
	MaxRisk    *float64
	RiskScale  RiskScale
	Month      *string
}

// FilterCities returns the cities passing f, preserving table order.
func FilterCities(cities []models.CityRecord, f CityFilter) []models.CityRecord {
	var interests map[string]struct{}
	if len(f.Categories) > 0 {
		interests = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			interests[strings.ToLower(c)] = struct{}{}
		}
	}

	out := []models.CityRecord{}
	for _, c := range cities {
		if f.Category != nil && !strings.EqualFold(c.Category, *f.Category) {
			continue
		}
		if interests != nil {
			if _, ok := interests[strings.ToLower(c.Category)]; !ok {
				continue
			}
		}
		if f.MinRating != nil && (!c.HasRating || c.Rating < *f.MinRating) {
			continue
		}
		if f.MaxRisk != nil && (!c.HasRisk || scaledRisk(c.Risk, f.RiskScale) > *f.MaxRisk) {
			continue
		}
		if f.Month != nil && *f.Month != "" && !c.MonthMatches(*f.Month) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func scaledRisk(risk float64, scale RiskScale) float64 {
	if scale == RiskScaleTen {
		return risk * 10
	}
	return risk
}

// SortByRatingThenRisk orders by tourist_rating descending, then risk_index
// ascending. Equal keys keep table order.
func SortByRatingThenRisk(cities []models.CityRecord) {
	sort.SliceStable(cities, func(i, j int) bool {
		a, b := cities[i], cities[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Risk < b.Risk
	})
}
