// Package domain contains the core entities and value objects for AlertView.
// These models represent alerts as reported by the upstream monitoring
// platform, plus the query and paging vocabulary used to fetch them.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAlertNotFound is returned when an alert cannot be found in the
// accumulated set.
var ErrAlertNotFound = errors.New("alert not found")

// Severity levels as reported by the upstream platform.
const (
	SeverityWarning  = 2
	SeverityError    = 3
	SeverityCritical = 4
)

// MonitorObjectGroup describes one group the monitored object belongs to.
// Groups are rendered separately from the generic field listing in the
// alert detail view.
type MonitorObjectGroup struct {
	Name     string `json:"name"`
	FullPath string `json:"fullPath"`
}

// Alert represents one monitoring event fetched from the upstream platform.
//
// The upstream payload has an open schema: beyond the fixed fields below,
// any alert may carry additional string-keyed properties that vary per
// alert. Those land in Extra and feed the discovered-property set.
type Alert struct {
	// ID is the upstream identifier, unique per alert. It is the
	// deduplication key during accumulation.
	ID string `json:"id"`

	// Severity is the upstream severity level: 2=warning, 3=error,
	// 4=critical. Anything else renders as unknown.
	Severity int `json:"severity"`

	// StartEpoch is the alert start time in Unix seconds.
	StartEpoch int64 `json:"startEpoch"`

	// Cleared indicates the alert condition has cleared. A cleared alert
	// renders as "Cleared" regardless of its numeric severity.
	Cleared bool `json:"cleared"`

	// MonitorObjectName is the name of the monitored object.
	MonitorObjectName string `json:"monitorObjectName"`

	// ResourceTemplateName is the datasource/template that raised the alert.
	ResourceTemplateName string `json:"resourceTemplateName"`

	// InstanceName is the datasource instance.
	InstanceName string `json:"instanceName"`

	// DataPointName is the datapoint that crossed its threshold.
	DataPointName string `json:"dataPointName"`

	// AlertValue is the reported value at alert time.
	AlertValue string `json:"alertValue"`

	// MonitorObjectGroups lists the groups of the monitored object.
	// Excluded from the generic detail listing, rendered on its own.
	MonitorObjectGroups []MonitorObjectGroup `json:"monitorObjectGroups,omitempty"`

	// Extra holds every payload property not covered by a fixed field
	// above. Keys here are the raw upstream property names.
	Extra map[string]any `json:"-"`
}

// fixedKeys are the payload keys decoded into fixed Alert fields; every
// other key is kept in Extra.
var fixedKeys = map[string]bool{
	"id":                   true,
	"severity":             true,
	"startEpoch":           true,
	"cleared":              true,
	"monitorObjectName":    true,
	"resourceTemplateName": true,
	"instanceName":         true,
	"dataPointName":        true,
	"alertValue":           true,
	"monitorObjectGroups":  true,
}

// UnmarshalJSON decodes the fixed fields and routes every remaining
// payload key into Extra, preserving the upstream open schema.
func (a *Alert) UnmarshalJSON(data []byte) error {
	type fixed Alert
	var known fixed
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("failed to decode alert: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode alert payload: %w", err)
	}

	*a = Alert(known)
	for key, val := range raw {
		if fixedKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return fmt.Errorf("failed to decode alert property %q: %w", key, err)
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[key] = v
	}
	return nil
}

// MarshalJSON re-flattens Extra back into the payload so an Alert round
// trips through the API surface with its open properties intact.
func (a Alert) MarshalJSON() ([]byte, error) {
	type fixed Alert
	data, err := json.Marshal(fixed(a))
	if err != nil {
		return nil, err
	}

	if len(a.Extra) == 0 {
		return data, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, val := range a.Extra {
		merged[key] = val
	}
	return json.Marshal(merged)
}

// Field returns the raw value of the named alert property. Fixed fields
// are looked up by their upstream payload name; anything else falls
// through to Extra. The second return reports whether the property exists.
func (a *Alert) Field(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "severity":
		return a.Severity, true
	case "startEpoch":
		return a.StartEpoch, true
	case "cleared":
		return a.Cleared, true
	case "monitorObjectName":
		return a.MonitorObjectName, true
	case "resourceTemplateName":
		return a.ResourceTemplateName, true
	case "instanceName":
		return a.InstanceName, true
	case "dataPointName":
		return a.DataPointName, true
	case "alertValue":
		return a.AlertValue, true
	case "monitorObjectGroups":
		if len(a.MonitorObjectGroups) == 0 {
			return nil, false
		}
		return a.MonitorObjectGroups, true
	}
	val, ok := a.Extra[name]
	return val, ok
}

// ExtensionKeys returns the open-schema property names this alert carries
// beyond the fixed fields. Used to build the discovered-property set.
func (a *Alert) ExtensionKeys() []string {
	keys := make([]string, 0, len(a.Extra)+1)
	for key := range a.Extra {
		keys = append(keys, key)
	}
	if len(a.MonitorObjectGroups) > 0 {
		keys = append(keys, "monitorObjectGroups")
	}
	return keys
}

// GroupPaths returns the full paths of the alert's monitor object groups,
// for the dedicated group rendering in the detail view.
func (a *Alert) GroupPaths() []string {
	paths := make([]string, 0, len(a.MonitorObjectGroups))
	for _, g := range a.MonitorObjectGroups {
		if g.FullPath != "" {
			paths = append(paths, g.FullPath)
			continue
		}
		paths = append(paths, g.Name)
	}
	return paths
}

// AlertPage is one page of the upstream alert listing.
//
// Total carries the upstream sign convention: a negative value means the
// server does not yet know the exact count and more pages are likely
// available regardless of the reported magnitude; a non-negative value is
// the authoritative final count.
type AlertPage struct {
	Items []Alert `json:"items"`
	Total int     `json:"total"`
}
