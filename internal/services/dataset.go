package services

import (
	"strings"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/internal/repository"
)

// Dataset is the read-only view of the reference tables the services need.
// *repository.DatasetStore implements it.
type Dataset interface {
	States() []models.StateRecord
	Cities() []models.CityRecord
	Risks() []models.RiskRecord
	StateNames() []string
	Categories() []string
}

// resolveState resolves query against the states table or returns a
// NotFound error carrying near-miss suggestions.
func resolveState(data Dataset, query, message string) (models.StateRecord, error) {
	state, ok := repository.ResolveOne(data.States(), repository.StateName, query)
	if !ok {
		return state, stateNotFound(data, query, message)
	}
	return state, nil
}

func stateNotFound(data Dataset, query, message string) *apperrors.Error {
	err := apperrors.NotFound(message)
	if s := repository.Suggest(data.StateNames(), query); len(s) > 0 {
		err.WithDetail("suggestions", s)
	}
	return err
}

// citiesInState returns the cities whose state_name resolves to query.
func citiesInState(data Dataset, query string) []models.CityRecord {
	return repository.Resolve(data.Cities(), repository.CityState, query)
}

// lookupCity resolves the state first, then the city name within it.
func lookupCity(data Dataset, state, city string) (models.CityRecord, bool) {
	return repository.ResolveOne(citiesInState(data, state), repository.CityName, city)
}

func cityDetails(cities []models.CityRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(cities))
	for _, c := range cities {
		out = append(out, c.Detail())
	}
	return out
}

func trimmed(s string) string { return strings.TrimSpace(s) }
