package core

type (
	// AppState is the session's working set: every known week plus the
	// currently selected one. It is a plain value; mutations go through
	// Apply, which returns a new state and never modifies the input.
	AppState struct {
		Weeks         []Week
		CurrentWeekID string
	}

	// Action is a state transition request for Apply.
	Action interface{ isAction() }

	// Initialize replaces the whole state, e.g. after loading user data.
	Initialize struct{ State AppState }

	// SelectWeek upserts a week (replace by id or append) and makes it
	// current. Selection is always re-enterable.
	SelectWeek struct{ Week Week }

	// SetCurrentWeek repoints the current-week reference without touching
	// the week collection.
	SetCurrentWeek struct{ WeekID string }

	// AddExpense appends a record to the week named by its WeekID.
	AddExpense struct{ Expense Expense }

	// AddIncome appends a record to the week named by its WeekID.
	AddIncome struct{ Income Income }

	// UpdateExpense replaces the record with a matching id, wherever it
	// lives.
	UpdateExpense struct{ Expense Expense }

	// UpdateIncome replaces the record with a matching id.
	UpdateIncome struct{ Income Income }

	// DeleteExpense removes the record with the given id.
	DeleteExpense struct{ ID string }

	// DeleteIncome removes the record with the given id.
	DeleteIncome struct{ ID string }
)

func (Initialize) isAction()     {}
func (SelectWeek) isAction()     {}
func (SetCurrentWeek) isAction() {}
func (AddExpense) isAction()     {}
func (AddIncome) isAction()      {}
func (UpdateExpense) isAction()  {}
func (UpdateIncome) isAction()   {}
func (DeleteExpense) isAction()  {}
func (DeleteIncome) isAction()   {}

// FindWeek looks up a week by its normalized date-string pair. Returns nil
// when no week matches; at most one ever can, since ranges never overlap.
func FindWeek(weeks []Week, startStr, endStr string) *Week {
	for i := range weeks {
		if FormatDate(weeks[i].StartDate) == startStr && FormatDate(weeks[i].EndDate) == endStr {
			return &weeks[i]
		}
	}
	return nil
}

// FindWeekByID looks up a week by id.
func FindWeekByID(weeks []Week, id string) *Week {
	for i := range weeks {
		if weeks[i].ID == id {
			return &weeks[i]
		}
	}
	return nil
}

// CurrentWeek returns the currently selected week, or nil when none is.
func (s AppState) CurrentWeek() *Week {
	if s.CurrentWeekID == "" {
		return nil
	}
	return FindWeekByID(s.Weeks, s.CurrentWeekID)
}

// UpsertWeek replaces the week with the same id, or appends when the id is
// new. It does not change the current-week selection.
func UpsertWeek(weeks []Week, week Week) []Week {
	out := make([]Week, len(weeks))
	copy(out, weeks)
	for i := range out {
		if out[i].ID == week.ID {
			out[i] = week
			return out
		}
	}
	return append(out, week)
}

// Apply is the reducer: old state plus an action yields a new state. It is
// pure; the caller owns serializing concurrent access. Record mutations
// against an unknown week or record id fail with ErrWeekNotFound or
// ErrRecordNotFound instead of silently no-opping.
func Apply(s AppState, action Action) (AppState, error) {
	switch a := action.(type) {
	case Initialize:
		return a.State, nil

	case SelectWeek:
		s.Weeks = UpsertWeek(s.Weeks, a.Week)
		s.CurrentWeekID = a.Week.ID
		return s, nil

	case SetCurrentWeek:
		if FindWeekByID(s.Weeks, a.WeekID) == nil {
			return s, ErrWeekNotFound
		}
		s.CurrentWeekID = a.WeekID
		return s, nil

	case AddExpense:
		return s.withWeek(a.Expense.WeekID, func(w Week) Week {
			w.Expenses = append(append([]Expense(nil), w.Expenses...), a.Expense)
			return w
		})

	case AddIncome:
		return s.withWeek(a.Income.WeekID, func(w Week) Week {
			w.Incomes = append(append([]Income(nil), w.Incomes...), a.Income)
			return w
		})

	case UpdateExpense:
		return s.mapExpenses(a.Expense.ID, func(list []Expense, i int) []Expense {
			out := append([]Expense(nil), list...)
			out[i] = a.Expense
			return out
		})

	case UpdateIncome:
		return s.mapIncomes(a.Income.ID, func(list []Income, i int) []Income {
			out := append([]Income(nil), list...)
			out[i] = a.Income
			return out
		})

	case DeleteExpense:
		return s.mapExpenses(a.ID, func(list []Expense, i int) []Expense {
			out := append([]Expense(nil), list[:i]...)
			return append(out, list[i+1:]...)
		})

	case DeleteIncome:
		return s.mapIncomes(a.ID, func(list []Income, i int) []Income {
			out := append([]Income(nil), list[:i]...)
			return append(out, list[i+1:]...)
		})

	default:
		return s, nil
	}
}

// withWeek rewrites a single week by id, copying the week collection.
func (s AppState) withWeek(weekID string, fn func(Week) Week) (AppState, error) {
	for i := range s.Weeks {
		if s.Weeks[i].ID == weekID {
			weeks := make([]Week, len(s.Weeks))
			copy(weeks, s.Weeks)
			weeks[i] = fn(weeks[i])
			s.Weeks = weeks
			return s, nil
		}
	}
	return s, ErrWeekNotFound
}

// mapExpenses finds the expense with the given id across all weeks and
// rewrites that week's expense list. O(weeks x records), fine at this scale.
func (s AppState) mapExpenses(id string, fn func([]Expense, int) []Expense) (AppState, error) {
	for wi := range s.Weeks {
		for ei := range s.Weeks[wi].Expenses {
			if s.Weeks[wi].Expenses[ei].ID != id {
				continue
			}
			weeks := make([]Week, len(s.Weeks))
			copy(weeks, s.Weeks)
			weeks[wi].Expenses = fn(weeks[wi].Expenses, ei)
			s.Weeks = weeks
			return s, nil
		}
	}
	return s, ErrRecordNotFound
}

func (s AppState) mapIncomes(id string, fn func([]Income, int) []Income) (AppState, error) {
	for wi := range s.Weeks {
		for ii := range s.Weeks[wi].Incomes {
			if s.Weeks[wi].Incomes[ii].ID != id {
				continue
			}
			weeks := make([]Week, len(s.Weeks))
			copy(weeks, s.Weeks)
			weeks[wi].Incomes = fn(weeks[wi].Incomes, ii)
			s.Weeks = weeks
			return s, nil
		}
	}
	return s, ErrRecordNotFound
}
