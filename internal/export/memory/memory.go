package memory

import (
	"context"
	"fmt"
	"sync"

	"haulbooks/internal/core"
)

// Sink collects exported summaries in memory. Used for tests and for
// running the worker without a spreadsheet configured.
type Sink struct {
	mu      sync.Mutex
	weeks   []WeekRow
	reports []core.YearSummary
}

type WeekRow struct {
	Week    core.Week
	Summary core.WeekSummary
}

func New() *Sink {
	return &Sink{}
}

// AppendWeekSummary stores the row and returns a synthetic row reference.
func (s *Sink) AppendWeekSummary(_ context.Context, week core.Week, sum core.WeekSummary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weeks = append(s.weeks, WeekRow{Week: week, Summary: sum})
	return fmt.Sprintf("mem:%d", len(s.weeks)), nil
}

func (s *Sink) WriteYearReport(_ context.Context, r core.YearSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

// WeekRows returns a copy of the appended week rows.
func (s *Sink) WeekRows() []WeekRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WeekRow(nil), s.weeks...)
}

// Reports returns a copy of the written year reports.
func (s *Sink) Reports() []core.YearSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.YearSummary(nil), s.reports...)
}
