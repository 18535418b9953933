package core

import (
	"math"
	"time"
)

type (
	// CategoryTotals holds per-category expense sums over the closed
	// category set. A category with no matching expenses stays at zero;
	// callers treat zero as "absent".
	CategoryTotals struct {
		Fuel        Money
		Maintenance Money
		Other       Money
	}

	// WeekSummary is the single-week rollup: totals, net, and the
	// category breakdown. No cross-week state.
	WeekSummary struct {
		TotalIncome        Money
		TotalExpenses      Money
		NetEarnings        Money
		ExpensesByCategory CategoryTotals
	}

	// MonthSummary rolls up every week overlapping a calendar month.
	// NumberOfWeeks is the count of selected weeks; zero means "no data"
	// and all totals are zero.
	MonthSummary struct {
		Year               int
		Month              time.Month
		TotalIncome        Money
		TotalExpenses      Money
		NetEarnings        Money
		ExpensesByCategory CategoryTotals
		NumberOfWeeks      int
	}

	// YearSummary rolls up every week overlapping a calendar year, plus a
	// 12-entry month-by-month table (index 0 is January).
	YearSummary struct {
		Year               int
		TotalIncome        Money
		TotalExpenses      Money
		NetEarnings        Money
		ExpensesByCategory CategoryTotals
		MonthlyBreakdown   [12]MonthSummary
		NumberOfWeeks      int
	}
)

// TotalExpenses sums the amounts of a set of expenses. Empty input is a
// defined zero, never an error.
func TotalExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalIncome sums the amounts of a set of incomes.
func TotalIncome(incomes []Income) Money {
	var total Money
	for _, in := range incomes {
		total = total.Add(in.Amount)
	}
	return total
}

// NetEarnings is total income minus total expenses; may be negative.
func NetEarnings(incomes []Income, expenses []Expense) Money {
	return TotalIncome(incomes).Sub(TotalExpenses(expenses))
}

// ExpensesByCategory groups and sums expenses over the closed category set.
func ExpensesByCategory(expenses []Expense) CategoryTotals {
	var totals CategoryTotals
	for _, e := range expenses {
		switch e.Category {
		case CategoryFuel:
			totals.Fuel = totals.Fuel.Add(e.Amount)
		case CategoryMaintenance:
			totals.Maintenance = totals.Maintenance.Add(e.Amount)
		case CategoryOther:
			totals.Other = totals.Other.Add(e.Amount)
		}
	}
	return totals
}

// Get returns the total for a single category.
func (ct CategoryTotals) Get(c ExpenseCategory) Money {
	switch c {
	case CategoryFuel:
		return ct.Fuel
	case CategoryMaintenance:
		return ct.Maintenance
	default:
		return ct.Other
	}
}

// Total is the sum over all categories; it always equals the TotalExpenses
// of the grouped input.
func (ct CategoryTotals) Total() Money {
	return ct.Fuel.Add(ct.Maintenance).Add(ct.Other)
}

// Share returns the category's percentage of the overall total, rounded to
// the nearest integer. Shares may not sum to exactly 100; that is accepted,
// not corrected. A zero total yields zero shares.
func (ct CategoryTotals) Share(c ExpenseCategory) int {
	total := ct.Total()
	if total.IsZero() {
		return 0
	}
	return int(math.Round(float64(ct.Get(c).Cents) / float64(total.Cents) * 100))
}

// SummarizeWeek computes the single-week rollup. Calling it twice on the
// same unmutated week yields identical results.
func SummarizeWeek(w Week) WeekSummary {
	return WeekSummary{
		TotalIncome:        TotalIncome(w.Incomes),
		TotalExpenses:      TotalExpenses(w.Expenses),
		NetEarnings:        NetEarnings(w.Incomes, w.Expenses),
		ExpensesByCategory: ExpensesByCategory(w.Expenses),
	}
}

// weekInMonth reports whether a week belongs to the given calendar month.
// A week is selected when its start date OR its end date falls inside the
// month, so a week spanning a month boundary counts fully toward both
// months. That double-counting is by design: each month's report shows
// every week that touches it, records included whole.
func weekInMonth(w Week, year int, month time.Month) bool {
	return (w.StartDate.Year() == year && w.StartDate.Month() == month) ||
		(w.EndDate.Year() == year && w.EndDate.Month() == month)
}

// weekInYear mirrors weekInMonth at year granularity.
func weekInYear(w Week, year int) bool {
	return w.StartDate.Year() == year || w.EndDate.Year() == year
}

// SummarizeMonth rolls up every week overlapping the given month. All of a
// selected week's records are included, even those dated outside the
// target month; there is no per-record filtering inside a bucket.
func SummarizeMonth(weeks []Week, year int, month time.Month) MonthSummary {
	var (
		expenses []Expense
		incomes  []Income
		count    int
	)
	for _, w := range weeks {
		if !weekInMonth(w, year, month) {
			continue
		}
		expenses = append(expenses, w.Expenses...)
		incomes = append(incomes, w.Incomes...)
		count++
	}
	return MonthSummary{
		Year:               year,
		Month:              month,
		TotalIncome:        TotalIncome(incomes),
		TotalExpenses:      TotalExpenses(expenses),
		NetEarnings:        NetEarnings(incomes, expenses),
		ExpensesByCategory: ExpensesByCategory(expenses),
		NumberOfWeeks:      count,
	}
}

// SummarizeYear rolls up every week overlapping the given year and fills
// the month-by-month table by re-running SummarizeMonth for each month.
// The re-scan is quadratic-ish but fine at single-user scale, and it keeps
// the boundary double-counting identical to the per-month reports.
func SummarizeYear(weeks []Week, year int) YearSummary {
	var (
		expenses []Expense
		incomes  []Income
		count    int
	)
	for _, w := range weeks {
		if !weekInYear(w, year) {
			continue
		}
		expenses = append(expenses, w.Expenses...)
		incomes = append(incomes, w.Incomes...)
		count++
	}

	summary := YearSummary{
		Year:               year,
		TotalIncome:        TotalIncome(incomes),
		TotalExpenses:      TotalExpenses(expenses),
		NetEarnings:        NetEarnings(incomes, expenses),
		ExpensesByCategory: ExpensesByCategory(expenses),
		NumberOfWeeks:      count,
	}
	for m := time.January; m <= time.December; m++ {
		summary.MonthlyBreakdown[m-1] = SummarizeMonth(weeks, year, m)
	}
	return summary
}
