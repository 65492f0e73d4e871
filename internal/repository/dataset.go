package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// DatasetPaths locates the three reference tables.
type DatasetPaths struct {
	States string
	Cities string
	Risk   string
}

var (
	requiredStateColumns = []string{models.ColStateName}
	requiredCityColumns  = []string{models.ColCityName, models.ColStateName, models.ColCategory, models.ColTouristRating, models.ColRiskIndex}
	requiredRiskColumns  = []string{models.ColRiskState, models.ColRiskIndex}
)

// LoadError reports an unreadable table. It is never transient: the process
// cannot serve without its reference data.
type LoadError struct {
	Table  string
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s", e.Table)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsTransient returns false as load errors are permanent
func (e *LoadError) IsTransient() bool { return false }

// DatasetStore holds the States, Cities and Risk tables. It is built once and
// only read afterwards, so concurrent readers need no locking.
type DatasetStore struct {
	states []models.StateRecord
	cities []models.CityRecord
	risks  []models.RiskRecord
}

// LoadDataset reads the three CSV files named by paths.
func LoadDataset(ctx context.Context, paths DatasetPaths, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (*DatasetStore, error) {
	open := func(table, path string) (*os.File, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, &LoadError{Table: table, Reason: "cannot open " + path, Err: err}
		}
		return f, nil
	}

	sf, err := open("states", paths.States)
	if err != nil {
		return nil, err
	}
	defer sf.Close()
	cf, err := open("cities", paths.Cities)
	if err != nil {
		return nil, err
	}
	defer cf.Close()
	rf, err := open("risk", paths.Risk)
	if err != nil {
		return nil, err
	}
	defer rf.Close()

	store, err := NewDatasetStore(sf, cf, rf)
	if err != nil {
		return nil, err
	}

	if metricsCollector != nil {
		metricsCollector.SetDatasetRows("states", len(store.states))
		metricsCollector.SetDatasetRows("cities", len(store.cities))
		metricsCollector.SetDatasetRows("risk", len(store.risks))
	}
	logger.Info(ctx, "[DATASET_LOADED] Reference tables loaded", logging.Fields{
		"states": len(store.states),
		"cities": len(store.cities),
		"risk":   len(store.risks),
	})

	return store, nil
}

// NewDatasetStore parses the three tables from CSV readers.
func NewDatasetStore(states, cities, risk io.Reader) (*DatasetStore, error) {
	s, err := parseStates(states)
	if err != nil {
		return nil, err
	}
	c, err := parseCities(cities)
	if err != nil {
		return nil, err
	}
	r, err := parseRisk(risk)
	if err != nil {
		return nil, err
	}
	return &DatasetStore{states: s, cities: c, risks: r}, nil
}

// States returns the states table in file order.
func (d *DatasetStore) States() []models.StateRecord { return slices.Clone(d.states) }

// Cities returns the cities table in file order.
func (d *DatasetStore) Cities() []models.CityRecord { return slices.Clone(d.cities) }

// Risks returns the risk table in file order.
func (d *DatasetStore) Risks() []models.RiskRecord { return slices.Clone(d.risks) }

// StateNames lists state names in file order.
func (d *DatasetStore) StateNames() []string {
	names := make([]string, len(d.states))
	for i, s := range d.states {
		names[i] = s.Name
	}
	return names
}

// Categories returns the distinct non-empty city categories, sorted.
func (d *DatasetStore) Categories() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, c := range d.cities {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out
}

// Counts reports rows per table.
func (d *DatasetStore) Counts() map[string]int {
	return map[string]int{
		"states": len(d.states),
		"cities": len(d.cities),
		"risk":   len(d.risks),
	}
}

func readTable(table string, r io.Reader, required []string) (*models.Header, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &LoadError{Table: table, Reason: "malformed csv", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, &LoadError{Table: table, Reason: "missing header"}
	}

	header := models.NewHeader(rows[0])
	for _, col := range required {
		if !header.Has(col) {
			return nil, nil, &LoadError{Table: table, Column: col, Reason: "required column missing"}
		}
	}

	body := rows[1:]
	// Skip fully blank lines left by spreadsheet exports.
	body = slices.DeleteFunc(body, func(cells []string) bool {
		for _, c := range cells {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
		return true
	})
	return header, body, nil
}

func parseStates(r io.Reader) ([]models.StateRecord, error) {
	header, rows, err := readTable("states", r, requiredStateColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.StateRecord, 0, len(rows))
	for i, cells := range rows {
		rec := models.NewRecord(header, cells)
		name := rec.Text(models.ColStateName)
		if name == "" {
			return nil, &LoadError{Table: "states", Row: i + 1, Column: models.ColStateName, Reason: "empty state name"}
		}
		for _, col := range header.Columns() {
			if _, ok := models.VisitorYear(col); !ok {
				continue
			}
			raw := rec.Raw(col)
			if models.IsMissing(raw) {
				continue
			}
			v, ok := models.ParseNumber(raw)
			if !ok || v < 0 {
				return nil, &LoadError{Table: "states", Row: i + 1, Column: col, Reason: fmt.Sprintf("visitor count %q must be a non-negative number", raw)}
			}
		}
		out = append(out, models.StateRecord{Name: name, Record: rec})
	}
	return out, nil
}

func parseCities(r io.Reader) ([]models.CityRecord, error) {
	header, rows, err := readTable("cities", r, requiredCityColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.CityRecord, 0, len(rows))
	for i, cells := range rows {
		rec := models.NewRecord(header, cells)
		city := models.CityRecord{
			Name:     rec.Text(models.ColCityName),
			State:    rec.Text(models.ColStateName),
			Category: rec.Text(models.ColCategory),
			Record:   rec,
		}

		var perr error
		city.Rating, city.HasRating, perr = optionalNumber(rec, models.ColTouristRating)
		if perr != nil {
			return nil, &LoadError{Table: "cities", Row: i + 1, Column: models.ColTouristRating, Reason: perr.Error()}
		}
		city.Risk, city.HasRisk, perr = optionalNumber(rec, models.ColRiskIndex)
		if perr != nil {
			return nil, &LoadError{Table: "cities", Row: i + 1, Column: models.ColRiskIndex, Reason: perr.Error()}
		}
		out = append(out, city)
	}
	return out, nil
}

func parseRisk(r io.Reader) ([]models.RiskRecord, error) {
	header, rows, err := readTable("risk", r, requiredRiskColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.RiskRecord, 0, len(rows))
	for i, cells := range rows {
		rec := models.NewRecord(header, cells)
		idx, _, perr := optionalNumber(rec, models.ColRiskIndex)
		if perr != nil {
			return nil, &LoadError{Table: "risk", Row: i + 1, Column: models.ColRiskIndex, Reason: perr.Error()}
		}
		out = append(out, models.RiskRecord{
			State:     rec.Text(models.ColRiskState),
			RiskIndex: idx,
			Record:    rec,
		})
	}
	return out, nil
}

var errNotNumeric = errors.New("value is not numeric")

func optionalNumber(rec models.Record, column string) (float64, bool, error) {
	raw := rec.Raw(column)
	if models.IsMissing(raw) {
		return 0, false, nil
	}
	v, ok := models.ParseNumber(raw)
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", errNotNumeric, raw)
	}
	return v, true, nil
}
