package view

import "sync"

// Options is a point-in-time copy of the view state, consumed by the row
// and export endpoints.
type Options struct {
	FilterText    string    `json:"filter_text"`
	SortColumn    string    `json:"sort_column,omitempty"`
	SortDirection Direction `json:"sort_direction"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
}

// State holds the current filter/sort/pagination selection. It persists
// across requests and is independent of any fetch session; exports read
// it to reflect the view at the moment of export.
//
// Changing the filter, the sort, or the page size resets the page to 1 so
// the visible window never references a vanished page.
type State struct {
	mu   sync.RWMutex
	opts Options
}

// NewState creates a view state with the given default page size.
func NewState(pageSize int) *State {
	return &State{
		opts: Options{
			SortDirection: DirectionNone,
			Page:          1,
			PageSize:      pageSize,
		},
	}
}

// Snapshot returns a copy of the current options.
func (s *State) Snapshot() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SetFilter updates the free-text filter and resets to the first page.
func (s *State) SetFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.FilterText == text {
		return
	}
	s.opts.FilterText = text
	s.opts.Page = 1
}

// ClickSort applies one sort-header click. Clicking the active column
// cycles asc, desc, none; clicking a different column starts it at asc.
// Either way the page resets to 1.
func (s *State) ClickSort(column string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.SortColumn != column {
		s.opts.SortColumn = column
		s.opts.SortDirection = DirectionAsc
	} else {
		switch s.opts.SortDirection {
		case DirectionAsc:
			s.opts.SortDirection = DirectionDesc
		case DirectionDesc:
			s.opts.SortDirection = DirectionNone
		default:
			s.opts.SortDirection = DirectionAsc
		}
	}
	s.opts.Page = 1
}

// SetSort sets the sort column and direction explicitly, resetting to the
// first page when either changes.
func (s *State) SetSort(column string, dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.SortColumn == column && s.opts.SortDirection == dir {
		return
	}
	s.opts.SortColumn = column
	s.opts.SortDirection = dir
	s.opts.Page = 1
}

// SetPage moves to the given 1-based page.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.opts.Page = page
}

// SetPageSize changes the page size and resets to the first page.
func (s *State) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size < 1 || size == s.opts.PageSize {
		return
	}
	s.opts.PageSize = size
	s.opts.Page = 1
}
