// Package store defines the interface for the published report state.
// The abstraction keeps the accumulation loop independent of where the
// finished alert set lives; the only implementation today is in-memory.
package store

import (
	"alertview-go/internal/domain"
)

// Snapshot is the published result of a successful accumulation run: the
// deduplicated alerts in accumulation order plus the discovered-property
// set, sorted by name.
type Snapshot struct {
	Alerts     []domain.Alert
	Properties []string
}

// SnapshotStore holds the snapshot the report surfaces read from.
type SnapshotStore interface {
	// Replace swaps the published snapshot for a new one.
	Replace(snap Snapshot)

	// Clear drops the published snapshot, leaving an empty set.
	Clear()

	// Load returns the published snapshot. Implementations return copies
	// that stay valid after a later Replace or Clear.
	Load() Snapshot

	// Get returns the published alert with the given id, or
	// domain.ErrAlertNotFound.
	Get(id string) (*domain.Alert, error)
}
