package repository

import (
	"fmt"
	"strings"
)

// QualityReport lists the data problems that load but degrade some endpoint:
// a state without a risk row gets the placeholder report, a city whose state
// is not in the states table is unreachable from state lookups, a duplicate
// (state, city) pair shadows its later rows and fewer than two visitor points
// rule out trend projection.
type QualityReport struct {
	Counts            map[string]int
	Categories        []string
	StatesWithoutRisk []string
	OrphanCities      []string
	DuplicateCities   []string
	ShortHistory      []string
	UnratedCities     []string
}

// Inspect builds a QualityReport for a loaded store.
func Inspect(store *DatasetStore) *QualityReport {
	report := &QualityReport{
		Counts:     store.Counts(),
		Categories: store.Categories(),
	}

	risks := store.Risks()
	for _, st := range store.States() {
		if _, ok := ResolveOne(risks, RiskState, st.Name); !ok {
			report.StatesWithoutRisk = append(report.StatesWithoutRisk, st.Name)
		}

		points := 0
		for _, yc := range st.Visitors() {
			if yc.Present {
				points++
			}
		}
		if points < 2 {
			report.ShortHistory = append(report.ShortHistory, st.Name)
		}
	}

	known := make(map[string]struct{})
	for _, name := range store.StateNames() {
		known[strings.ToLower(name)] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, c := range store.Cities() {
		label := fmt.Sprintf("%s (%s)", c.Name, c.State)

		if _, ok := known[strings.ToLower(c.State)]; !ok {
			report.OrphanCities = append(report.OrphanCities, label)
		}

		key := strings.ToLower(c.State) + "\x00" + strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			report.DuplicateCities = append(report.DuplicateCities, label)
		}
		seen[key] = struct{}{}

		if !c.HasRating {
			report.UnratedCities = append(report.UnratedCities, label)
		}
	}

	return report
}

// Warnings renders the report's findings, one line per category.
func (q *QualityReport) Warnings() []string {
	var out []string
	add := func(format string, items []string) {
		if len(items) > 0 {
			out = append(out, fmt.Sprintf(format, len(items), strings.Join(items, ", ")))
		}
	}
	add("%d state(s) without a risk row: %s", q.StatesWithoutRisk)
	add("%d city row(s) with an unknown state: %s", q.OrphanCities)
	add("%d duplicate city row(s), first row wins: %s", q.DuplicateCities)
	add("%d state(s) with fewer than two visitor years: %s", q.ShortHistory)
	add("%d city row(s) without a rating: %s", q.UnratedCities)
	return out
}
