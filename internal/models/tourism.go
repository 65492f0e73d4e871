package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Column names shared by loaders and services.
const (
	ColStateName     = "state_name"
	ColCityName      = "city_name"
	ColCategory      = "category"
	ColTouristRating = "tourist_rating"
	ColRiskIndex     = "risk_index"
	ColBestTime      = "best_time_to_visit"
	ColPopularMonths = "popular_months"
	ColFamousFor     = "famous_for"
	ColRiskState     = "state"

	TourismColumnPrefix = "tourism_"
)

// HazardColumns are the per-hazard fields of the risk table, in response order.
var HazardColumns = []string{
	"flood_risk",
	"landslide_risk",
	"earthquake_zone",
	"crime_rate",
	"accident_rate",
	"cyclone_risk",
	"drought_risk",
	"forest_fire_risk",
	"sea_erosion_risk",
}

var visitorsColumn = regexp.MustCompile(`^visitors_(\d{4})$`)

// VisitorYear extracts the year from a "visitors_<YYYY>" column name.
func VisitorYear(column string) (int, bool) {
	m := visitorsColumn.FindStringSubmatch(column)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// IsTourismColumn reports whether column is one of the tourism_* trend columns.
func IsTourismColumn(column string) bool {
	return strings.HasPrefix(column, TourismColumnPrefix)
}

// YearCount is one (year, visitors) observation.
type YearCount struct {
	Year     int  `json:"year"`
	Visitors int  `json:"visitors"`
	Present  bool `json:"-"`
}

// StateRecord is one row of the states table.
type StateRecord struct {
	Name string
	Record
}

// Visitors returns every visitors_<YYYY> column in ascending year order.
// Missing cells are reported with Present=false and Visitors=0.
func (s StateRecord) Visitors() []YearCount {
	var out []YearCount
	for _, c := range s.Columns() {
		year, ok := VisitorYear(c)
		if !ok {
			continue
		}
		yc := YearCount{Year: year}
		if v, ok := s.Number(c); ok {
			yc.Visitors = int(v)
			yc.Present = true
		}
		out = append(out, yc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// FamousFor parses the delimited famous_for cell into tags.
func (s StateRecord) FamousFor() []string {
	return ParseTags(s.Text(ColFamousFor))
}

// Detail returns every column except the tourism_* trend columns.
func (s StateRecord) Detail() map[string]interface{} {
	return s.Fields(func(c string) bool { return !IsTourismColumn(c) })
}

// tagTrim covers the quote and bracket characters a list literal leaves behind.
const tagTrim = " \t\"'[](){}"

// ParseTags splits a comma-delimited list such as "['Beaches', 'Forts']".
func ParseTags(raw string) []string {
	tags := []string{}
	if IsMissing(raw) {
		return tags
	}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.Trim(part, tagTrim)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CityRecord is one row of the cities table.
type CityRecord struct {
	Name      string
	State     string
	Category  string
	Rating    float64
	HasRating bool
	Risk      float64
	HasRisk   bool
	Record
}

// MonthMatches reports whether month (case-insensitive) occurs in either
// best_time_to_visit or popular_months.
func (c CityRecord) MonthMatches(month string) bool {
	m := strings.ToLower(month)
	return strings.Contains(strings.ToLower(c.Text(ColBestTime)), m) ||
		strings.Contains(strings.ToLower(c.Text(ColPopularMonths)), m)
}

// Detail returns every column of the row.
func (c CityRecord) Detail() map[string]interface{} {
	return c.Fields(nil)
}

// RiskRecord is one row of the risk table.
type RiskRecord struct {
	State     string
	RiskIndex float64
	Record
}

// Fixed advisory strings of the placeholder risk report.
const (
	PlaceholderHealthAlerts      = "No specific health alerts available for this state."
	PlaceholderSafetySuggestions = "Follow standard travel safety precautions and check local advisories."
	PlaceholderInsurance         = "Not specified"
)

// RiskReport is the response shape of the state risk endpoint.
type RiskReport struct {
	State              string                 `json:"state"`
	RiskIndex          float64                `json:"risk_index"`
	Risks              map[string]interface{} `json:"risks"`
	HealthAlerts       interface{}            `json:"health_alerts"`
	SafetySuggestions  interface{}            `json:"safety_suggestions"`
	InsuranceAvailable interface{}            `json:"insurance_available"`
	MajorDisasterYears interface{}            `json:"major_disaster_years"`
	HotspotDistricts   interface{}            `json:"hotspot_districts"`
}

// PlaceholderRisk is returned for states absent from the risk table.
func PlaceholderRisk(state string) RiskReport {
	return RiskReport{
		State:              state,
		RiskIndex:          0,
		Risks:              map[string]interface{}{},
		HealthAlerts:       PlaceholderHealthAlerts,
		SafetySuggestions:  PlaceholderSafetySuggestions,
		InsuranceAvailable: PlaceholderInsurance,
		MajorDisasterYears: "",
		HotspotDistricts:   "",
	}
}

// Report shapes a risk row. Hazards with no value are left out of Risks.
func (r RiskRecord) Report() RiskReport {
	risks := make(map[string]interface{})
	for _, h := range HazardColumns {
		if IsMissing(r.Raw(h)) {
			continue
		}
		risks[h] = r.Value(h)
	}
	return RiskReport{
		State:              r.State,
		RiskIndex:          r.RiskIndex,
		Risks:              risks,
		HealthAlerts:       r.Value("health_alerts"),
		SafetySuggestions:  r.Value("safety_suggestions"),
		InsuranceAvailable: r.Value("insurance_available"),
		MajorDisasterYears: r.Value("major_disaster_years"),
		HotspotDistricts:   r.Value("hotspot_districts"),
	}
}
