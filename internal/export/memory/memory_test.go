package memory

import (
	"context"
	"testing"
	"time"

	"haulbooks/internal/core"
)

func TestSinkAppendWeekSummary(t *testing.T) {
	s := New()

	start, end := core.WeekRangeOf(time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	week := core.Week{ID: "w1", StartDate: start, EndDate: end}

	ref, err := s.AppendWeekSummary(context.Background(), week, core.SummarizeWeek(week))
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.WeekRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Week.ID != "w1" {
		t.Errorf("unexpected week id %q", rows[0].Week.ID)
	}
	if !rows[0].Summary.NetEarnings.IsZero() {
		t.Errorf("empty week should have zero net, got %v", rows[0].Summary.NetEarnings)
	}
}

func TestSinkWriteYearReport(t *testing.T) {
	s := New()

	if err := s.WriteYearReport(context.Background(), core.SummarizeYear(nil, 2025)); err != nil {
		t.Fatalf("WriteYearReport failed: %v", err)
	}

	reports := s.Reports()
	if len(reports) != 1 || reports[0].Year != 2025 {
		t.Fatalf("unexpected reports: %+v", reports)
	}
	if reports[0].NumberOfWeeks != 0 {
		t.Errorf("empty year should have zero weeks, got %d", reports[0].NumberOfWeeks)
	}
}
