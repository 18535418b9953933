// Package ledger owns the session state: a single coordinating owner that
// serializes every mutation, persists through the store first, then folds
// the result into the pure core reducer. Aggregation reads work on a state
// snapshot and never block writers for long.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"haulbooks/internal/core"
)

// Service coordinates the app state for one driver. All state transitions
// go through the core reducer under a single mutex; none of the arithmetic
// tolerates out-of-order application.
type Service struct {
	mu     sync.Mutex
	state  core.AppState
	store  Store
	events EventPublisher // optional
	userID string
}

func NewService(store Store, events EventPublisher, userID string) *Service {
	return &Service{
		store:  store,
		events: events,
		userID: userID,
	}
}

// Load pulls the driver's full working set from the store and makes sure a
// current week exists and is selected, mirroring session startup.
func (s *Service) Load(ctx context.Context) error {
	state, err := s.store.LoadUserData(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}

	// Always ensure the week containing today exists and is current. Store
	// I/O stays outside the lock, like the mutation paths.
	week, err := s.store.GetOrCreateWeek(ctx, s.userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ensure current week: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = core.Apply(s.state, core.Initialize{State: state})
	s.state, _ = core.Apply(s.state, core.SelectWeek{Week: week})
	return nil
}

// SelectWeek resolves the week owning date, finds or creates it, and makes
// it current. Selection is always re-enterable.
func (s *Service) SelectWeek(ctx context.Context, date time.Time) (core.Week, error) {
	week, err := s.store.GetOrCreateWeek(ctx, s.userID, date)
	if err != nil {
		return core.Week{}, fmt.Errorf("get or create week: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = core.Apply(s.state, core.SelectWeek{Week: week})
	return week, nil
}

// CurrentWeek returns a copy of the selected week, or false when none is.
func (s *Service) CurrentWeek() (core.Week, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.state.CurrentWeek()
	if w == nil {
		return core.Week{}, false
	}
	return *w, true
}

// State returns a snapshot of the session state. The snapshot shares week
// record slices with the live state; treat it as read-only.
func (s *Service) State() core.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddExpense attaches an expense to the current week. When no week is
// selected yet, the week containing today is created and selected first;
// that auto-create is a documented convenience carried over from the
// original behavior, not an accident.
func (s *Service) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	weekID, err := s.ensureCurrentWeek(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	expense, err := s.store.AddExpense(ctx, weekID, s.userID, in)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.mu.Lock()
	s.state, err = core.Apply(s.state, core.AddExpense{Expense: expense})
	s.mu.Unlock()
	if err != nil {
		return core.Expense{}, err
	}

	s.publishWeekSync(ctx, weekID)
	return expense, nil
}

// AddIncome attaches an income to the current week, with the same
// auto-create convenience as AddExpense.
func (s *Service) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	weekID, err := s.ensureCurrentWeek(ctx)
	if err != nil {
		return core.Income{}, err
	}

	income, err := s.store.AddIncome(ctx, weekID, s.userID, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}

	s.mu.Lock()
	s.state, err = core.Apply(s.state, core.AddIncome{Income: income})
	s.mu.Unlock()
	if err != nil {
		return core.Income{}, err
	}

	s.publishWeekSync(ctx, weekID)
	return income, nil
}

// UpdateExpense rewrites an existing expense wherever it lives.
func (s *Service) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	updated, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	s.state, err = core.Apply(s.state, core.UpdateExpense{Expense: updated})
	s.mu.Unlock()
	if err != nil {
		return core.Expense{}, err
	}

	s.publishWeekSync(ctx, updated.WeekID)
	return updated, nil
}

func (s *Service) UpdateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	updated, err := s.store.UpdateIncome(ctx, in)
	if err != nil {
		return core.Income{}, err
	}

	s.mu.Lock()
	s.state, err = core.Apply(s.state, core.UpdateIncome{Income: updated})
	s.mu.Unlock()
	if err != nil {
		return core.Income{}, err
	}

	s.publishWeekSync(ctx, updated.WeekID)
	return updated, nil
}

// DeleteExpense removes a record by id. The store is the source of truth;
// the in-memory state follows.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	weekID := s.weekIDOfExpense(id)

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	var err error
	s.state, err = core.Apply(s.state, core.DeleteExpense{ID: id})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if weekID != "" {
		s.publishWeekSync(ctx, weekID)
	}
	return nil
}

func (s *Service) DeleteIncome(ctx context.Context, id string) error {
	weekID := s.weekIDOfIncome(id)

	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	var err error
	s.state, err = core.Apply(s.state, core.DeleteIncome{ID: id})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if weekID != "" {
		s.publishWeekSync(ctx, weekID)
	}
	return nil
}

// WeeklySummary rolls up the week owning date. The week is created when
// the date has never been seen, so the summary is always defined.
func (s *Service) WeeklySummary(ctx context.Context, date time.Time) (core.Week, core.WeekSummary, error) {
	start, end := core.WeekRangeOf(date)

	s.mu.Lock()
	week := core.FindWeek(s.state.Weeks, core.FormatDate(start), core.FormatDate(end))
	if week != nil {
		w := *week
		s.mu.Unlock()
		return w, core.SummarizeWeek(w), nil
	}
	s.mu.Unlock()

	w, err := s.SelectWeek(ctx, date)
	if err != nil {
		return core.Week{}, core.WeekSummary{}, err
	}
	return w, core.SummarizeWeek(w), nil
}

// MonthlySummary rolls up every week overlapping the given month.
func (s *Service) MonthlySummary(year int, month time.Month) core.MonthSummary {
	return core.SummarizeMonth(s.State().Weeks, year, month)
}

// YearlySummary rolls up a calendar year with its month-by-month table.
func (s *Service) YearlySummary(year int) core.YearSummary {
	return core.SummarizeYear(s.State().Weeks, year)
}

// ensureCurrentWeek returns the selected week id, creating and selecting
// the week containing today when nothing is selected.
func (s *Service) ensureCurrentWeek(ctx context.Context) (string, error) {
	s.mu.Lock()
	weekID := s.state.CurrentWeekID
	s.mu.Unlock()
	if weekID != "" {
		return weekID, nil
	}

	week, err := s.SelectWeek(ctx, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return week.ID, nil
}

func (s *Service) weekIDOfExpense(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.state.Weeks {
		for _, e := range w.Expenses {
			if e.ID == id {
				return w.ID
			}
		}
	}
	return ""
}

func (s *Service) weekIDOfIncome(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.state.Weeks {
		for _, in := range w.Incomes {
			if in.ID == id {
				return w.ID
			}
		}
	}
	return ""
}

// publishWeekSync hands the mutation to the async export pipe. Failures
// are logged and swallowed; the record is already persisted locally.
func (s *Service) publishWeekSync(ctx context.Context, weekID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishWeekSync(ctx, weekID, s.userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish week sync message",
			"week_id", weekID, "error", err)
	}
}
