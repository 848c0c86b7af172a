// Package view derives the visible report rows from the accumulated alert
// set: a free-text filter, a single-column tri-state sort, a page window,
// and the per-cell rendering rules shared by the grid and the exports.
package view

import (
	"fmt"
	"sort"
	"strings"

	"alertview-go/internal/domain"
)

// Direction is the sort direction of the active sort column.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
	DirectionNone Direction = "none"
)

// IsValid returns true for a recognised direction.
func (d Direction) IsValid() bool {
	return d == DirectionAsc || d == DirectionDesc || d == DirectionNone
}

// Filter returns the alerts passing the free-text filter. An empty filter
// passes everything; otherwise an alert passes iff its monitor object name
// or resource template name contains the text, case-insensitively.
//
// Filtering is deliberately restricted to those two fields regardless of
// which columns are displayed.
func Filter(alerts []domain.Alert, filterText string) []domain.Alert {
	if filterText == "" {
		out := make([]domain.Alert, len(alerts))
		copy(out, alerts)
		return out
	}

	needle := strings.ToLower(filterText)
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if strings.Contains(strings.ToLower(a.MonitorObjectName), needle) ||
			strings.Contains(strings.ToLower(a.ResourceTemplateName), needle) {
			out = append(out, a)
		}
	}
	return out
}

// Sort returns the alerts ordered by the named property. DirectionNone
// (or an empty column) leaves the input order, which is accumulation
// order. The comparison is value-type-driven: numeric values compare
// numerically, everything else lexicographically.
func Sort(alerts []domain.Alert, column string, dir Direction) []domain.Alert {
	out := make([]domain.Alert, len(alerts))
	copy(out, alerts)

	if column == "" || dir == DirectionNone || dir == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		vi, _ := out[i].Field(column)
		vj, _ := out[j].Field(column)
		less := compareValues(vi, vj) < 0
		if dir == DirectionDesc {
			return compareValues(vj, vi) < 0
		}
		return less
	})
	return out
}

// Paginate slices the alerts to the 1-based page window. An out-of-range
// page yields an empty slice.
func Paginate(alerts []domain.Alert, page, pageSize int) []domain.Alert {
	if page < 1 || pageSize < 1 {
		return []domain.Alert{}
	}

	start := (page - 1) * pageSize
	if start >= len(alerts) {
		return []domain.Alert{}
	}
	end := start + pageSize
	if end > len(alerts) {
		end = len(alerts)
	}
	return alerts[start:end]
}

// PageCount returns the number of pages the alerts span at the given page
// size. An empty set has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// compareValues orders two raw field values. Both-numeric compares
// numerically; otherwise the string forms compare lexicographically.
// Missing values order before present ones.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	na, aOK := asNumber(a)
	nb, bOK := asNumber(b)
	if aOK && bOK {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(stringValue(a), stringValue(b))
}

// stringValue is the lexicographic form a non-numeric value sorts by.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// asNumber extracts a float64 from the numeric types an alert field can
// carry. JSON decoding produces float64 for extension properties.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
