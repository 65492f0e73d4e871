package repository

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"tourism-platform/internal/models"
)

// Resolve matches query against name(row) with three fallbacks, returning all
// rows of the first tier that matches anything:
//
//  1. exact, case-insensitive, surrounding whitespace trimmed
//  2. the query is a substring of the name
//  3. exact after removing all whitespace
//
// A blank query matches nothing. Callers take element 0 when they need one row.
func Resolve[T any](rows []T, name func(T) string, query string) []T {
	q := normalize(query)
	if q == "" {
		return nil
	}

	tiers := []func(string) bool{
		func(n string) bool { return n == q },
		func(n string) bool { return strings.Contains(n, q) },
		func(n string) bool { return stripSpace(n) == stripSpace(q) },
	}

	for _, match := range tiers {
		var out []T
		for _, row := range rows {
			if match(normalize(name(row))) {
				out = append(out, row)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// ResolveOne returns the first row Resolve yields.
func ResolveOne[T any](rows []T, name func(T) string, query string) (T, bool) {
	matches := Resolve(rows, name, query)
	if len(matches) == 0 {
		var zero T
		return zero, false
	}
	return matches[0], true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Name accessors for the reference tables.
func StateName(s models.StateRecord) string { return s.Name }
func CityName(c models.CityRecord) string   { return c.Name }
func CityState(c models.CityRecord) string  { return c.State }
func RiskState(r models.RiskRecord) string  { return r.State }

const (
	maxSuggestions      = 3
	maxSuggestionOffset = 3
)

// Suggest returns up to three candidates within a small edit distance of
// query, closest first. Used to enrich not-found responses.
func Suggest(candidates []string, query string) []string {
	q := normalize(query)
	if q == "" {
		return nil
	}

	type scored struct {
		name string
		dist int
		pos  int
	}
	var hits []scored
	seen := make(map[string]struct{})
	for i, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		d := levenshtein.ComputeDistance(q, normalize(c))
		if d <= maxSuggestionOffset {
			hits = append(hits, scored{name: c, dist: d, pos: i})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]string, 0, maxSuggestions)
	for _, h := range hits {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, h.name)
	}
	return out
}
