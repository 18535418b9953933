package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekOf(id string, y int, m time.Month, d int) Week {
	start, end := WeekRangeOf(day(y, m, d))
	return Week{ID: id, StartDate: start, EndDate: end}
}

func expense(cents int64, cat ExpenseCategory) Expense {
	return Expense{Amount: Money{Cents: cents}, Category: cat}
}

func income(cents int64) Income {
	return Income{Amount: Money{Cents: cents}}
}

func TestTotalsEmptyInputIsZero(t *testing.T) {
	if got := TotalExpenses(nil); !got.IsZero() {
		t.Fatalf("TotalExpenses(nil)=%d", got.Cents)
	}
	if got := TotalIncome(nil); !got.IsZero() {
		t.Fatalf("TotalIncome(nil)=%d", got.Cents)
	}
	if got := NetEarnings(nil, nil); !got.IsZero() {
		t.Fatalf("NetEarnings(nil, nil)=%d", got.Cents)
	}
}

func TestTotalExpenses(t *testing.T) {
	expenses := []Expense{expense(1000, CategoryFuel), expense(550, CategoryOther)}
	if got := TotalExpenses(expenses); got.Cents != 1550 {
		t.Fatalf("TotalExpenses=%d, want 1550", got.Cents)
	}
}

func TestNetEarningsMayBeNegative(t *testing.T) {
	incomes := []Income{income(10000)}
	expenses := []Expense{expense(15000, CategoryMaintenance)}
	got := NetEarnings(incomes, expenses)
	if got.Cents != -5000 {
		t.Fatalf("NetEarnings=%d, want -5000", got.Cents)
	}
	want := TotalIncome(incomes).Sub(TotalExpenses(expenses))
	if got != want {
		t.Fatalf("NetEarnings identity broken: %d vs %d", got.Cents, want.Cents)
	}
}

func TestExpensesByCategoryPartitionsExactly(t *testing.T) {
	expenses := []Expense{
		expense(10000, CategoryFuel),
		expense(2500, CategoryFuel),
		expense(7000, CategoryMaintenance),
		expense(500, CategoryOther),
	}
	totals := ExpensesByCategory(expenses)
	if totals.Fuel.Cents != 12500 || totals.Maintenance.Cents != 7000 || totals.Other.Cents != 500 {
		t.Fatalf("unexpected breakdown: %+v", totals)
	}
	if totals.Total() != TotalExpenses(expenses) {
		t.Fatalf("category totals %d != expense total %d", totals.Total().Cents, TotalExpenses(expenses).Cents)
	}
	// Absent category stays zero.
	partial := ExpensesByCategory([]Expense{expense(100, CategoryFuel)})
	if !partial.Maintenance.IsZero() || !partial.Other.IsZero() {
		t.Fatalf("absent categories should stay zero: %+v", partial)
	}
}

func TestCategoryShares(t *testing.T) {
	totals := CategoryTotals{
		Fuel:        Money{Cents: 10000},
		Maintenance: Money{Cents: 2500},
		Other:       Money{Cents: 2500},
	}
	if got := totals.Share(CategoryFuel); got != 67 {
		t.Fatalf("fuel share=%d, want 67", got)
	}
	if got := totals.Share(CategoryMaintenance); got != 17 {
		t.Fatalf("maintenance share=%d, want 17", got)
	}
	// Shares round independently and may not sum to 100.
	sum := totals.Share(CategoryFuel) + totals.Share(CategoryMaintenance) + totals.Share(CategoryOther)
	if sum != 101 {
		t.Fatalf("share sum=%d, want 101 for this split", sum)
	}
	if got := (CategoryTotals{}).Share(CategoryFuel); got != 0 {
		t.Fatalf("zero total share=%d", got)
	}
}

func TestSummarizeWeek(t *testing.T) {
	w := weekOf("w1", 2025, time.January, 5)
	w.Expenses = []Expense{expense(10000, CategoryFuel), expense(5000, CategoryOther)}
	w.Incomes = []Income{income(50000)}

	got := SummarizeWeek(w)
	if got.TotalIncome.Cents != 50000 {
		t.Fatalf("TotalIncome=%d", got.TotalIncome.Cents)
	}
	if got.TotalExpenses.Cents != 15000 {
		t.Fatalf("TotalExpenses=%d", got.TotalExpenses.Cents)
	}
	if got.NetEarnings.Cents != 35000 {
		t.Fatalf("NetEarnings=%d", got.NetEarnings.Cents)
	}
	if got.ExpensesByCategory.Fuel.Cents != 10000 || got.ExpensesByCategory.Other.Cents != 5000 {
		t.Fatalf("breakdown=%+v", got.ExpensesByCategory)
	}

	// Idempotent on an unmutated week.
	if again := SummarizeWeek(w); again != got {
		t.Fatalf("second summary differs: %+v vs %+v", again, got)
	}
}

func TestSummarizeMonthBoundaryWeekCountsTwice(t *testing.T) {
	// Dec 29 2024 - Jan 4 2025 spans both a month and a year boundary.
	boundary := weekOf("boundary", 2024, time.December, 29)
	boundary.Expenses = []Expense{expense(20000, CategoryFuel)}
	boundary.Incomes = []Income{income(60000)}
	weeks := []Week{boundary}

	dec := SummarizeMonth(weeks, 2024, time.December)
	jan := SummarizeMonth(weeks, 2025, time.January)

	for _, s := range []MonthSummary{dec, jan} {
		if s.NumberOfWeeks != 1 {
			t.Fatalf("%v %d: NumberOfWeeks=%d", s.Month, s.Year, s.NumberOfWeeks)
		}
		// The full record totals land in both months by design.
		if s.TotalExpenses.Cents != 20000 || s.TotalIncome.Cents != 60000 {
			t.Fatalf("%v %d: totals=%d/%d", s.Month, s.Year, s.TotalIncome.Cents, s.TotalExpenses.Cents)
		}
	}

	// A month the week never touches sees nothing.
	feb := SummarizeMonth(weeks, 2025, time.February)
	if feb.NumberOfWeeks != 0 || !feb.TotalIncome.IsZero() || !feb.TotalExpenses.IsZero() {
		t.Fatalf("February should be empty: %+v", feb)
	}
}

func TestSummarizeMonthIncludesWholeBuckets(t *testing.T) {
	// Records dated outside the target month still count when their week
	// overlaps it; there is no per-record filtering.
	w := weekOf("w", 2025, time.March, 30) // Mar 30 - Apr 5
	w.Expenses = []Expense{
		{Date: day(2025, time.March, 31), Amount: Money{Cents: 100}, Category: CategoryFuel},
		{Date: day(2025, time.April, 2), Amount: Money{Cents: 200}, Category: CategoryFuel},
	}
	april := SummarizeMonth([]Week{w}, 2025, time.April)
	if april.TotalExpenses.Cents != 300 {
		t.Fatalf("April total=%d, want 300 (whole bucket)", april.TotalExpenses.Cents)
	}
}

func TestSummarizeYear(t *testing.T) {
	w1 := weekOf("w1", 2025, time.January, 5)
	w1.Incomes = []Income{income(100000)}
	w1.Expenses = []Expense{expense(30000, CategoryFuel)}

	w2 := weekOf("w2", 2025, time.June, 8)
	w2.Incomes = []Income{income(80000)}

	boundary := weekOf("w3", 2024, time.December, 29) // overlaps 2024 and 2025
	boundary.Incomes = []Income{income(50000)}

	summary := SummarizeYear([]Week{w1, w2, boundary}, 2025)
	if summary.NumberOfWeeks != 3 {
		t.Fatalf("NumberOfWeeks=%d, want 3", summary.NumberOfWeeks)
	}
	if summary.TotalIncome.Cents != 230000 {
		t.Fatalf("TotalIncome=%d", summary.TotalIncome.Cents)
	}
	if summary.NetEarnings.Cents != 200000 {
		t.Fatalf("NetEarnings=%d", summary.NetEarnings.Cents)
	}
	if len(summary.MonthlyBreakdown) != 12 {
		t.Fatalf("MonthlyBreakdown has %d entries", len(summary.MonthlyBreakdown))
	}
	if summary.MonthlyBreakdown[0].Month != time.January {
		t.Fatalf("index 0 is %v, want January", summary.MonthlyBreakdown[0].Month)
	}
	// The boundary week shows up in the January breakdown alongside w1.
	if summary.MonthlyBreakdown[0].NumberOfWeeks != 2 {
		t.Fatalf("January weeks=%d, want 2", summary.MonthlyBreakdown[0].NumberOfWeeks)
	}
	if summary.MonthlyBreakdown[5].NumberOfWeeks != 1 {
		t.Fatalf("June weeks=%d, want 1", summary.MonthlyBreakdown[5].NumberOfWeeks)
	}
}

func TestSummarizeYearNoData(t *testing.T) {
	summary := SummarizeYear(nil, 2025)
	if summary.NumberOfWeeks != 0 {
		t.Fatalf("NumberOfWeeks=%d", summary.NumberOfWeeks)
	}
	if !summary.TotalIncome.IsZero() || !summary.TotalExpenses.IsZero() || !summary.NetEarnings.IsZero() {
		t.Fatalf("totals should be zero: %+v", summary)
	}
	if len(summary.MonthlyBreakdown) != 12 {
		t.Fatalf("MonthlyBreakdown has %d entries", len(summary.MonthlyBreakdown))
	}
	for i, m := range summary.MonthlyBreakdown {
		if m.NumberOfWeeks != 0 || !m.TotalIncome.IsZero() {
			t.Fatalf("month %d not zeroed: %+v", i, m)
		}
	}
}
