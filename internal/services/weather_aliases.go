package services

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// PlaceAliases maps local place names to names the weather provider knows,
// and each state to the city used for its state-level reading.
type PlaceAliases struct {
	Cities               map[string]string `yaml:"cities"`
	RepresentativeCities map[string]string `yaml:"representative_cities"`
}

// DefaultPlaceAliases returns the built-in tables.
func DefaultPlaceAliases() *PlaceAliases {
	return &PlaceAliases{
		Cities: map[string]string{
			"Mysuru":             "Mysore",
			"Bengaluru":          "Bangalore",
			"Thiruvananthapuram": "Trivandrum",
			"New Delhi":          "Delhi",
		},
		RepresentativeCities: map[string]string{
			"Andhra Pradesh":    "Vijayawada",
			"Arunachal Pradesh": "Itanagar",
			"Assam":             "Guwahati",
			"Bihar":             "Patna",
			"Chhattisgarh":      "Raipur",
			"Goa":               "Panaji",
			"Gujarat":           "Ahmedabad",
			"Haryana":           "Chandigarh",
			"Himachal Pradesh":  "Shimla",
			"Jharkhand":         "Ranchi",
			"Karnataka":         "Bengaluru",
			"Kerala":            "Thiruvananthapuram",
			"Madhya Pradesh":    "Bhopal",
			"Maharashtra":       "Mumbai",
			"Manipur":           "Imphal",
			"Meghalaya":         "Shillong",
			"Mizoram":           "Aizawl",
			"Nagaland":          "Kohima",
			"Odisha":            "Bhubaneswar",
			"Punjab":            "Amritsar",
			"Rajasthan":         "Jaipur",
			"Sikkim":            "Gangtok",
			"Tamil Nadu":        "Chennai",
			"Telangana":         "Hyderabad",
			"Tripura":           "Agartala",
			"Uttar Pradesh":     "Lucknow",
			"Uttarakhand":       "Dehradun",
			"West Bengal":       "Kolkata",
			"Delhi":             "New Delhi",
		},
	}
}

// LoadPlaceAliases reads a YAML file and overlays it on the defaults.
// An empty path returns the defaults.
func LoadPlaceAliases(path string) (*PlaceAliases, error) {
	aliases := DefaultPlaceAliases()
	if path == "" {
		return aliases, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases file: %w", err)
	}

	var overlay PlaceAliases
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse aliases file %s: %w", path, err)
	}
	maps.Copy(aliases.Cities, overlay.Cities)
	maps.Copy(aliases.RepresentativeCities, overlay.RepresentativeCities)
	return aliases, nil
}

// ProviderName translates a title-cased city name through the alias table.
func (a *PlaceAliases) ProviderName(city string) string {
	if alias, ok := a.Cities[city]; ok {
		return alias
	}
	return city
}

// RepresentativeCity returns the weather city for a title-cased state name.
func (a *PlaceAliases) RepresentativeCity(state string) (string, bool) {
	city, ok := a.RepresentativeCities[state]
	return city, ok
}
