package memory

import (
	"sync"

	"alertview-go/internal/domain"
	"alertview-go/internal/store"
)

// SnapshotStore is an in-memory implementation of store.SnapshotStore.
// It keeps the alert slice in accumulation order and indexes it by alert
// id for fast lookups.
type SnapshotStore struct {
	mu sync.RWMutex

	alerts     []domain.Alert
	properties []string

	// byID maps alert id to its position in alerts
	byID map[string]int
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		byID: make(map[string]int),
	}
}

// Replace swaps the published snapshot for a new one.
func (s *SnapshotStore) Replace(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store copies to prevent external modification
	s.alerts = make([]domain.Alert, len(snap.Alerts))
	copy(s.alerts, snap.Alerts)
	s.properties = make([]string, len(snap.Properties))
	copy(s.properties, snap.Properties)

	s.byID = make(map[string]int, len(s.alerts))
	for i := range s.alerts {
		s.byID[s.alerts[i].ID] = i
	}
}

// Clear drops the published snapshot.
func (s *SnapshotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = nil
	s.properties = nil
	s.byID = make(map[string]int)
}

// Load returns a copy of the published snapshot.
func (s *SnapshotStore) Load() store.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := store.Snapshot{
		Alerts:     make([]domain.Alert, len(s.alerts)),
		Properties: make([]string, len(s.properties)),
	}
	copy(out.Alerts, s.alerts)
	copy(out.Properties, s.properties)
	return out
}

// Get returns the published alert with the given id.
func (s *SnapshotStore) Get(id string) (*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, exists := s.byID[id]
	if !exists {
		return nil, domain.ErrAlertNotFound
	}

	// Return a copy
	result := s.alerts[idx]
	return &result, nil
}
