// Package columns maintains the ordered, user-mutable list of report
// columns: the seven built-ins plus any discovered properties the user
// has selected.
package columns

import (
	"errors"
	"sync"
)

// Errors returned by the column model.
var (
	ErrIndexOutOfRange = errors.New("column index out of range")
)

// Column is one display/export projection definition.
//
// ID is the stable key and equals the source property name; Label is the
// user-editable display text; OriginalName is the alert property the
// column reads, and never changes. Width hints are layout-only.
type Column struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width,omitempty"`
	MinWidth     int    `json:"minWidth,omitempty"`
	MaxWidth     int    `json:"maxWidth,omitempty"`
}

// builtins is the fixed default column set, in default order. Built-in
// columns can be reordered and relabeled but never removed.
var builtins = []Column{
	{ID: "severity", Label: "Severity", OriginalName: "severity", Width: 110},
	{ID: "startEpoch", Label: "Started On", OriginalName: "startEpoch", Width: 170},
	{ID: "monitorObjectName", Label: "Device", OriginalName: "monitorObjectName", MinWidth: 140},
	{ID: "resourceTemplateName", Label: "Resource", OriginalName: "resourceTemplateName", MinWidth: 140},
	{ID: "instanceName", Label: "Instance", OriginalName: "instanceName", MinWidth: 120},
	{ID: "dataPointName", Label: "Datapoint", OriginalName: "dataPointName", MinWidth: 120},
	{ID: "alertValue", Label: "Value", OriginalName: "alertValue", Width: 100},
}

// builtinIDs indexes the built-in set for membership checks.
var builtinIDs = func() map[string]bool {
	ids := make(map[string]bool, len(builtins))
	for _, c := range builtins {
		ids[c.ID] = true
	}
	return ids
}()

// IsBuiltin reports whether the property name is covered by a built-in
// column. Such properties are excluded from the discovered-property set.
func IsBuiltin(name string) bool {
	return builtinIDs[name]
}

// Builtins returns a copy of the default column set in default order.
func Builtins() []Column {
	out := make([]Column, len(builtins))
	copy(out, builtins)
	return out
}

// Model is the active column list. A single ordered sequence is kept:
// reorders move columns in place, newly selected properties append at the
// end, and deselections remove in place, so a manual reorder survives
// later selection changes.
type Model struct {
	mu   sync.RWMutex
	cols []Column
}

// NewModel creates a column model seeded with the built-in set.
func NewModel() *Model {
	return &Model{cols: Builtins()}
}

// Columns returns a copy of the active column list in display order.
func (m *Model) Columns() []Column {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Column, len(m.cols))
	copy(out, m.cols)
	return out
}

// Reorder moves the column at fromIndex to toIndex. It is a pure
// positional move: ids and labels are untouched.
func (m *Model) Reorder(fromIndex, toIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fromIndex < 0 || fromIndex >= len(m.cols) || toIndex < 0 || toIndex >= len(m.cols) {
		return ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	col := m.cols[fromIndex]
	rest := append(m.cols[:fromIndex], m.cols[fromIndex+1:]...)
	m.cols = append(rest[:toIndex], append([]Column{col}, rest[toIndex:]...)...)
	return nil
}

// Rename sets the label of the column with the given id. A missing id is
// a no-op. The id and original name never change, so data lookup and
// sorting are unaffected.
func (m *Model) Rename(columnID, newLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.cols {
		if m.cols[i].ID == columnID {
			m.cols[i].Label = newLabel
			return
		}
	}
}

// AddProperty appends a column for a discovered property, with the id,
// label and original name all equal to the property name. Adding an
// already-present property is a no-op.
func (m *Model) AddProperty(propertyName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.cols {
		if m.cols[i].ID == propertyName {
			return
		}
	}
	m.cols = append(m.cols, Column{
		ID:           propertyName,
		Label:        propertyName,
		OriginalName: propertyName,
	})
}

// RemoveProperty removes the column with the given property name.
// Built-in columns cannot be removed; attempting to is a no-op, so the
// list never shrinks below the built-in set.
func (m *Model) RemoveProperty(propertyName string) {
	if IsBuiltin(propertyName) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.cols {
		if m.cols[i].ID == propertyName {
			m.cols = append(m.cols[:i], m.cols[i+1:]...)
			return
		}
	}
}
