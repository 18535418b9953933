// Package memory implements the ledger store in process memory. It backs
// the default data backend for local development and the test suites.
package memory

import (
	"context"
	"sync"
	"time"

	"haulbooks/internal/core"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	weeks    []core.Week
	expenses []core.Expense
	incomes  []core.Income
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadUserData(_ context.Context, _ string) (core.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks := make([]core.Week, 0, len(s.weeks))
	for _, w := range s.weeks {
		weeks = append(weeks, s.hydrateLocked(w))
	}

	state := core.AppState{Weeks: weeks}
	start, end := core.WeekRangeOf(time.Now().UTC())
	if current := core.FindWeek(weeks, core.FormatDate(start), core.FormatDate(end)); current != nil {
		state.CurrentWeekID = current.ID
	}
	return state, nil
}

func (s *Store) GetOrCreateWeek(_ context.Context, _ string, date time.Time) (core.Week, error) {
	start, end := core.WeekRangeOf(date)
	startStr, endStr := core.FormatDate(start), core.FormatDate(end)

	s.mu.Lock()
	defer s.mu.Unlock()

	if w := core.FindWeek(s.weeks, startStr, endStr); w != nil {
		return s.hydrateLocked(*w), nil
	}
	week := core.Week{ID: uuid.NewString(), StartDate: start, EndDate: end}
	s.weeks = append(s.weeks, week)
	return week, nil
}

func (s *Store) GetWeek(_ context.Context, id string) (core.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w := core.FindWeekByID(s.weeks, id); w != nil {
		return s.hydrateLocked(*w), nil
	}
	return core.Week{}, core.ErrWeekNotFound
}

func (s *Store) AddExpense(_ context.Context, weekID, userID string, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if core.FindWeekByID(s.weeks, weekID) == nil {
		return core.Expense{}, core.ErrWeekNotFound
	}
	e := core.Expense{
		ID:          uuid.NewString(),
		WeekID:      weekID,
		UserID:      userID,
		Date:        in.Date,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) AddIncome(_ context.Context, weekID, userID string, in core.IncomeInput) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if core.FindWeekByID(s.weeks, weekID) == nil {
		return core.Income{}, core.ErrWeekNotFound
	}
	rec := core.Income{
		ID:          uuid.NewString(),
		WeekID:      weekID,
		UserID:      userID,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.incomes = append(s.incomes, rec)
	return rec, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.expenses {
		if stored.ID != e.ID {
			continue
		}
		// Ownership and bucket assignment are immutable on update.
		e.WeekID = stored.WeekID
		e.UserID = stored.UserID
		e.CreatedAt = stored.CreatedAt
		s.expenses[i] = e
		return e, nil
	}
	return core.Expense{}, core.ErrRecordNotFound
}

func (s *Store) UpdateIncome(_ context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.incomes {
		if stored.ID != in.ID {
			continue
		}
		in.WeekID = stored.WeekID
		in.UserID = stored.UserID
		in.CreatedAt = stored.CreatedAt
		s.incomes[i] = in
		return in, nil
	}
	return core.Income{}, core.ErrRecordNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrRecordNotFound
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incomes {
		if s.incomes[i].ID == id {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return nil
		}
	}
	return core.ErrRecordNotFound
}

// hydrateLocked attaches a week's records in insertion order. Callers hold
// the mutex.
func (s *Store) hydrateLocked(w core.Week) core.Week {
	w.Expenses = nil
	w.Incomes = nil
	for _, e := range s.expenses {
		if e.WeekID == w.ID {
			w.Expenses = append(w.Expenses, e)
		}
	}
	for _, in := range s.incomes {
		if in.WeekID == w.ID {
			w.Incomes = append(w.Incomes, in)
		}
	}
	return w
}
