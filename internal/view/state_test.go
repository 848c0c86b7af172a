package view

import (
	"testing"

	"alertview-go/internal/domain"
)

func TestState_ClickSortCycles(t *testing.T) {
	s := NewState(25)

	s.ClickSort("startEpoch")
	if o := s.Snapshot(); o.SortColumn != "startEpoch" || o.SortDirection != DirectionAsc {
		t.Fatalf("first click = %+v, want asc", o)
	}

	s.ClickSort("startEpoch")
	if o := s.Snapshot(); o.SortDirection != DirectionDesc {
		t.Fatalf("second click = %+v, want desc", o)
	}

	s.ClickSort("startEpoch")
	if o := s.Snapshot(); o.SortDirection != DirectionNone {
		t.Fatalf("third click = %+v, want none", o)
	}

	s.ClickSort("startEpoch")
	if o := s.Snapshot(); o.SortDirection != DirectionAsc {
		t.Fatalf("fourth click = %+v, want asc again", o)
	}
}

func TestState_ClickDifferentColumnResetsToAsc(t *testing.T) {
	s := NewState(25)
	s.ClickSort("startEpoch")
	s.ClickSort("startEpoch") // desc
	s.ClickSort("severity")

	if o := s.Snapshot(); o.SortColumn != "severity" || o.SortDirection != DirectionAsc {
		t.Errorf("after column switch = %+v, want severity asc", o)
	}
}

func TestState_TriStateCycleRestoresAccumulationOrder(t *testing.T) {
	s := NewState(25)
	alerts := sampleAlerts()

	// asc -> desc -> none: the third click must render pre-sort order
	s.ClickSort("startEpoch")
	s.ClickSort("startEpoch")
	s.ClickSort("startEpoch")

	o := s.Snapshot()
	got := Sort(alerts, o.SortColumn, o.SortDirection)
	for i := range alerts {
		if got[i].ID != alerts[i].ID {
			t.Fatalf("order after full cycle = %v, want accumulation order %v",
				ids(got), ids(alerts))
		}
	}
}

func TestState_PageResets(t *testing.T) {
	s := NewState(25)
	s.SetPage(5)

	s.SetFilter("web")
	if o := s.Snapshot(); o.Page != 1 {
		t.Errorf("page after filter change = %d, want 1", o.Page)
	}

	s.SetPage(5)
	s.ClickSort("severity")
	if o := s.Snapshot(); o.Page != 1 {
		t.Errorf("page after sort change = %d, want 1", o.Page)
	}

	s.SetPage(5)
	s.SetPageSize(50)
	if o := s.Snapshot(); o.Page != 1 {
		t.Errorf("page after page-size change = %d, want 1", o.Page)
	}
}

func TestState_UnchangedFilterKeepsPage(t *testing.T) {
	s := NewState(25)
	s.SetFilter("web")
	s.SetPage(3)
	s.SetFilter("web")

	if o := s.Snapshot(); o.Page != 3 {
		t.Errorf("page after identical filter = %d, want 3", o.Page)
	}
}

func TestState_SetPageClampsToOne(t *testing.T) {
	s := NewState(25)
	s.SetPage(-2)
	if o := s.Snapshot(); o.Page != 1 {
		t.Errorf("page = %d, want 1", o.Page)
	}
}

func TestTimeline_BucketsByHour(t *testing.T) {
	alerts := []domain.Alert{
		{ID: "a", StartEpoch: 7200},       // hour 7200
		{ID: "b", StartEpoch: 7300},       // hour 7200
		{ID: "c", StartEpoch: 10800},      // hour 10800
		{ID: "d", StartEpoch: 0},          // skipped
		{ID: "e", StartEpoch: 10800 + 59}, // hour 10800
	}

	buckets := Timeline(alerts)
	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d, want 2", len(buckets))
	}
	if buckets[0].HourStart != 7200 || buckets[0].Count != 2 {
		t.Errorf("bucket[0] = %+v, want hour 7200 count 2", buckets[0])
	}
	if buckets[1].HourStart != 10800 || buckets[1].Count != 3-1 {
		t.Errorf("bucket[1] = %+v, want hour 10800 count 2", buckets[1])
	}
	if buckets[0].Label == "" {
		t.Error("bucket label should be formatted")
	}
}
