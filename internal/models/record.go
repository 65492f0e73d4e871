package models

import (
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell contents treated as an absent value.
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ParseNumber parses a numeric-like cell. Missing, NaN and infinite values
// are rejected.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if IsMissing(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Coerce converts a raw cell to its response form: float64 when numeric-like,
// "" when missing, the trimmed text otherwise. It never returns nil.
func Coerce(raw string) interface{} {
	if f, ok := ParseNumber(raw); ok {
		return f
	}
	if IsMissing(raw) {
		return ""
	}
	return strings.TrimSpace(raw)
}

// Header is the column layout shared by every row of one table.
type Header struct {
	columns []string
	index   map[string]int
}

// NewHeader indexes columns by their trimmed name. A repeated column name
// resolves to its first occurrence.
func NewHeader(columns []string) *Header {
	h := &Header{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		h.columns[i] = name
		if _, dup := h.index[name]; !dup {
			h.index[name] = i
		}
	}
	return h
}

// Columns returns the header in file order.
func (h *Header) Columns() []string {
	return h.columns
}

// Has reports whether the table carries column.
func (h *Header) Has(column string) bool {
	_, ok := h.index[column]
	return ok
}

// Record is one row of a reference table.
type Record struct {
	header *Header
	cells  []string
}

// NewRecord binds cells to header. Short rows are padded with missing cells.
func NewRecord(header *Header, cells []string) Record {
	if len(cells) < len(header.columns) {
		padded := make([]string, len(header.columns))
		copy(padded, cells)
		cells = padded
	}
	return Record{header: header, cells: cells}
}

// Raw returns the trimmed cell text, "" when the column is absent.
func (r Record) Raw(column string) string {
	if r.header == nil {
		return ""
	}
	i, ok := r.header.index[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Text returns the cell as text, "" when absent or missing.
func (r Record) Text(column string) string {
	raw := r.Raw(column)
	if IsMissing(raw) {
		return ""
	}
	return raw
}

// Number returns the numeric value of column.
func (r Record) Number(column string) (float64, bool) {
	return ParseNumber(r.Raw(column))
}

// Value returns the coerced cell (see Coerce).
func (r Record) Value(column string) interface{} {
	return Coerce(r.Raw(column))
}

// Columns returns the column names of the owning table.
func (r Record) Columns() []string {
	if r.header == nil {
		return nil
	}
	return r.header.columns
}

// Fields renders every column accepted by keep as a coerced value map.
func (r Record) Fields(keep func(column string) bool) map[string]interface{} {
	out := make(map[string]interface{}, len(r.Columns()))
	for _, c := range r.Columns() {
		if c == "" || (keep != nil && !keep(c)) {
			continue
		}
		if _, seen := out[c]; seen {
			continue
		}
		out[c] = r.Value(c)
	}
	return out
}
