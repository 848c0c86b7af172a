package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"alertview-go/internal/columns"
	"alertview-go/internal/domain"
)

// Format selects the empty-value convention of a rendered cell. The grid
// shows "N/A" for missing values; CSV consumers expect a blank cell.
type Format int

const (
	FormatGrid Format = iota
	FormatCSV
)

// Severity status labels.
const (
	StatusCleared  = "Cleared"
	StatusCritical = "Critical"
	StatusError    = "Error"
	StatusWarning  = "Warning"
	StatusUnknown  = "Unknown"
)

// timestampLayout is how epoch-valued fields render in the grid and the
// exports.
const timestampLayout = "2006-01-02 15:04:05"

// StatusLabel derives the display status of an alert. A cleared alert is
// "Cleared" regardless of its numeric severity; otherwise the severity
// level maps to its label, with anything unrecognised as "Unknown".
func StatusLabel(a *domain.Alert) string {
	if a.Cleared {
		return StatusCleared
	}
	switch a.Severity {
	case domain.SeverityCritical:
		return StatusCritical
	case domain.SeverityError:
		return StatusError
	case domain.SeverityWarning:
		return StatusWarning
	default:
		return StatusUnknown
	}
}

// RenderCell renders one alert property for the given column per the
// shared cell rules: severity renders as the derived status label,
// epoch-like fields render as formatted timestamps, and everything else
// string-coerces with a format-specific empty fallback.
func RenderCell(a *domain.Alert, col columns.Column, format Format) string {
	if col.OriginalName == "severity" {
		return StatusLabel(a)
	}

	val, ok := a.Field(col.OriginalName)

	if IsEpochField(col.OriginalName) {
		return renderTimestamp(val, ok, format)
	}

	if !ok || val == nil {
		return emptyCell(format)
	}
	return renderValue(val, format)
}

// IsEpochField reports whether a property name denotes an epoch
// timestamp: the name contains "epoch" in any case, or ends in "On".
func IsEpochField(name string) bool {
	return strings.Contains(strings.ToLower(name), "epoch") || strings.HasSuffix(name, "On")
}

// renderTimestamp formats an epoch-valued cell. Zero and unparseable
// values render as the empty marker.
func renderTimestamp(val any, ok bool, format Format) string {
	if !ok || val == nil {
		return emptyCell(format)
	}

	epoch, numOK := asNumber(val)
	if !numOK {
		// Numeric strings still count as parseable
		s, isStr := val.(string)
		if !isStr {
			return emptyCell(format)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return emptyCell(format)
		}
		epoch = parsed
	}
	if epoch == 0 {
		return emptyCell(format)
	}
	return time.Unix(int64(epoch), 0).Format(timestampLayout)
}

// renderValue string-coerces a present, non-nil value. Nested objects and
// lists are JSON-stringified so they stay machine-readable in both the
// grid and CSV.
func renderValue(val any, format Format) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return emptyCell(format)
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func emptyCell(format Format) string {
	if format == FormatCSV {
		return ""
	}
	return "N/A"
}
