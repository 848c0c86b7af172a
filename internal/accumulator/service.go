// Package accumulator implements the paged fetch loop that drains the
// upstream alert listing into a deduplicated in-memory set.
//
// One run at a time: a run fetches pages sequentially, merges items by
// alert id with last-write-wins semantics, records every open-schema
// property it sees, and publishes the finished set as an immutable
// snapshot. The upstream total uses a sign convention: a negative total
// means the server does not yet know the final count and more pages are
// likely available; a non-negative total is authoritative.
package accumulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alertview-go/internal/columns"
	"alertview-go/internal/domain"
	"alertview-go/internal/metrics"
	"alertview-go/internal/store"
)

// Errors returned by the accumulator.
var (
	// ErrRunInProgress is returned when a run is started while another
	// one is still fetching. Runs never share the accumulating state.
	ErrRunInProgress = errors.New("an accumulation run is already in progress")
)

// AlertLister fetches one page of the upstream alert listing.
type AlertLister interface {
	ListAlerts(ctx context.Context, query domain.AlertQuery, offset, size int) (*domain.AlertPage, error)
}

// Status describes the current or most recent accumulation run.
type Status struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// Running reports whether the run is still fetching pages.
	Running bool `json:"running"`

	// Fetched is the number of distinct alerts accumulated so far.
	Fetched int `json:"fetched"`

	// Expected is the magnitude of the latest upstream total. While the
	// upstream is still undercounting this is an estimate, not a bound.
	Expected int `json:"expected"`

	// Pages is the number of pages fetched so far.
	Pages int `json:"pages"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended. Zero while running.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Error holds the human-readable failure message of a failed run.
	Error string `json:"error,omitempty"`
}

// Service owns the accumulation loop and publishes finished runs to the
// snapshot store.
type Service struct {
	lister    AlertLister
	snapshots store.SnapshotStore
	pageSize  int
	logger    *slog.Logger

	mu         sync.RWMutex
	generation uint64
	cancelRun  context.CancelFunc
	status     Status
}

// NewService creates an accumulator service. pageSize is the fixed
// upstream request size.
func NewService(lister AlertLister, snapshots store.SnapshotStore, pageSize int, logger *slog.Logger) *Service {
	return &Service{
		lister:    lister,
		snapshots: snapshots,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Start begins a new accumulation run for the given query and returns its
// run id. The run proceeds in the background; progress is observable via
// Status and the result via Snapshot.
//
// Starting a run clears the published snapshot first: a failed run leaves
// the service with an empty set, never with the previous run's data. If a
// run is already fetching, Start returns ErrRunInProgress.
func (s *Service) Start(ctx context.Context, query domain.AlertQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.status.Running {
		s.mu.Unlock()
		return "", ErrRunInProgress
	}

	s.generation++
	gen := s.generation
	runID := uuid.NewString()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelRun = cancel

	// Reset the slate: the previous run's data is never merged into and
	// never survives the start of a new run.
	s.snapshots.Clear()
	s.status = Status{
		RunID:     runID,
		Running:   true,
		StartedAt: time.Now().UTC(),
	}
	s.mu.Unlock()

	metrics.RunsStartedTotal.Inc()
	metrics.AccumulatedAlerts.Set(0)
	metrics.DiscoveredProperties.Set(0)

	go s.run(runCtx, gen, runID, query)

	return runID, nil
}

// Cancel abandons the in-flight run, if any. The abandoned run loses its
// right to publish results; a new run may be started immediately.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Running {
		return
	}
	s.generation++
	if s.cancelRun != nil {
		s.cancelRun()
	}
	s.status.Running = false
	s.status.FinishedAt = time.Now().UTC()
	s.status.Error = "run cancelled"
}

// Status returns a copy of the current or most recent run's status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot returns the published alert set and discovered properties.
// The returned slices are copies and safe to hold across runs.
func (s *Service) Snapshot() store.Snapshot {
	return s.snapshots.Load()
}

// Get returns the published alert with the given id.
func (s *Service) Get(id string) (*domain.Alert, error) {
	return s.snapshots.Get(id)
}

// run drains the upstream listing into a scratch set and publishes it on
// success. All shared-state writes are guarded by a generation check so a
// superseded run silently discards its results.
func (s *Service) run(ctx context.Context, gen uint64, runID string, query domain.AlertQuery) {
	runStart := time.Now()

	byID := make(map[string]int)
	var order []domain.Alert
	props := make(map[string]struct{})

	offset := 0
	sawTotal := 0
	pages := 0

	for {
		fetchStart := time.Now()
		page, err := s.lister.ListAlerts(ctx, query, offset, s.pageSize)
		if err != nil {
			s.fail(gen, runID, err)
			return
		}
		metrics.PagesFetchedTotal.Inc()
		metrics.PageFetchLatency.Observe(time.Since(fetchStart).Seconds())
		pages++

		// A zero-item page ends the run even when the reported total
		// claims more data.
		if len(page.Items) == 0 {
			sawTotal = page.Total
			break
		}

		for i := range page.Items {
			alert := page.Items[i]
			if idx, seen := byID[alert.ID]; seen {
				// Last write wins; the alert keeps its original
				// position in accumulation order.
				order[idx] = alert
			} else {
				byID[alert.ID] = len(order)
				order = append(order, alert)
			}
			for _, key := range alert.ExtensionKeys() {
				if columns.IsBuiltin(key) {
					continue
				}
				props[key] = struct{}{}
			}
		}

		sawTotal = page.Total
		offset += s.pageSize

		if !s.reportProgress(gen, len(order), absInt(page.Total), pages) {
			// A newer run owns the shared state now.
			metrics.RunsFinishedTotal.WithLabelValues("superseded").Inc()
			return
		}

		if page.Total >= 0 && offset >= page.Total {
			break
		}
	}

	snapshot := store.Snapshot{
		Alerts:     order,
		Properties: sortedKeys(props),
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.RunsFinishedTotal.WithLabelValues("superseded").Inc()
		return
	}
	s.snapshots.Replace(snapshot)
	s.status.Running = false
	s.status.Fetched = len(snapshot.Alerts)
	s.status.Expected = absInt(sawTotal)
	s.status.Pages = pages
	s.status.FinishedAt = time.Now().UTC()
	s.mu.Unlock()

	metrics.RunsFinishedTotal.WithLabelValues("success").Inc()
	metrics.RunDuration.Observe(time.Since(runStart).Seconds())
	metrics.AccumulatedAlerts.Set(float64(len(snapshot.Alerts)))
	metrics.DiscoveredProperties.Set(float64(len(snapshot.Properties)))

	s.logger.Info("accumulation run finished",
		"run_id", runID,
		"alerts", len(snapshot.Alerts),
		"pages", pages,
		"duration", time.Since(runStart),
	)
}

// reportProgress publishes a running counter for the caller. Returns false
// when the run has been superseded and must stop writing shared state.
func (s *Service) reportProgress(gen uint64, fetched, expected, pages int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.status.Fetched = fetched
	s.status.Expected = expected
	s.status.Pages = pages
	return true
}

// fail records a fatal run error. The published snapshot stays empty: a
// failed run's partial accumulation is never presented as trustworthy.
func (s *Service) fail(gen uint64, runID string, err error) {
	s.mu.Lock()
	if gen == s.generation {
		s.status.Running = false
		s.status.FinishedAt = time.Now().UTC()
		s.status.Error = fmt.Sprintf("alert fetch failed: %v", err)
	}
	s.mu.Unlock()

	metrics.RunsFinishedTotal.WithLabelValues("failure").Inc()
	s.logger.Error("accumulation run failed", "run_id", runID, "error", err)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
