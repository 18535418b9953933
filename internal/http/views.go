package http

import (
	"time"

	"haulbooks/internal/core"
)

// JSON views. Dates travel as YYYY-MM-DD strings and amounts as integer
// cents so clients never see floats.
type (
	expenseView struct {
		ID          string  `json:"id"`
		WeekID      string  `json:"week_id"`
		Date        string  `json:"date"`
		AmountCents int64   `json:"amount_cents"`
		Category    string  `json:"category"`
		Description *string `json:"description,omitempty"`
		CreatedAt   string  `json:"created_at"`
	}

	incomeView struct {
		ID          string  `json:"id"`
		WeekID      string  `json:"week_id"`
		Date        string  `json:"date"`
		AmountCents int64   `json:"amount_cents"`
		Description *string `json:"description,omitempty"`
		CreatedAt   string  `json:"created_at"`
	}

	weekView struct {
		ID         string        `json:"id"`
		Label      string        `json:"label"`
		StartDate  string        `json:"start_date"`
		EndDate    string        `json:"end_date"`
		WeekNumber int           `json:"week_number"`
		Expenses   []expenseView `json:"expenses"`
		Incomes    []incomeView  `json:"incomes"`
	}

	categoryTotalsView struct {
		FuelCents        int64 `json:"fuel_cents"`
		MaintenanceCents int64 `json:"maintenance_cents"`
		OtherCents       int64 `json:"other_cents"`
	}

	weekSummaryView struct {
		WeekID             string             `json:"week_id"`
		Label              string             `json:"label"`
		StartDate          string             `json:"start_date"`
		EndDate            string             `json:"end_date"`
		TotalIncomeCents   int64              `json:"total_income_cents"`
		TotalExpensesCents int64              `json:"total_expenses_cents"`
		NetEarningsCents   int64              `json:"net_earnings_cents"`
		ExpensesByCategory categoryTotalsView `json:"expenses_by_category"`
	}

	monthSummaryView struct {
		Year               int                `json:"year"`
		Month              int                `json:"month"`
		Label              string             `json:"label"`
		TotalIncomeCents   int64              `json:"total_income_cents"`
		TotalExpensesCents int64              `json:"total_expenses_cents"`
		NetEarningsCents   int64              `json:"net_earnings_cents"`
		ExpensesByCategory categoryTotalsView `json:"expenses_by_category"`
		NumberOfWeeks      int                `json:"number_of_weeks"`
	}

	yearSummaryView struct {
		Year               int                `json:"year"`
		TotalIncomeCents   int64              `json:"total_income_cents"`
		TotalExpensesCents int64              `json:"total_expenses_cents"`
		NetEarningsCents   int64              `json:"net_earnings_cents"`
		ExpensesByCategory categoryTotalsView `json:"expenses_by_category"`
		MonthlyBreakdown   []monthSummaryView `json:"monthly_breakdown"`
		NumberOfWeeks      int                `json:"number_of_weeks"`
	}
)

func toExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		WeekID:      e.WeekID,
		Date:        core.FormatDate(e.Date),
		AmountCents: e.Amount.Cents,
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toIncomeView(in core.Income) incomeView {
	return incomeView{
		ID:          in.ID,
		WeekID:      in.WeekID,
		Date:        core.FormatDate(in.Date),
		AmountCents: in.Amount.Cents,
		Description: in.Description,
		CreatedAt:   in.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toWeekView(w core.Week) weekView {
	v := weekView{
		ID:         w.ID,
		Label:      w.Label(),
		StartDate:  core.FormatDate(w.StartDate),
		EndDate:    core.FormatDate(w.EndDate),
		WeekNumber: core.WeekNumber(w.StartDate),
		Expenses:   make([]expenseView, 0, len(w.Expenses)),
		Incomes:    make([]incomeView, 0, len(w.Incomes)),
	}
	for _, e := range w.Expenses {
		v.Expenses = append(v.Expenses, toExpenseView(e))
	}
	for _, in := range w.Incomes {
		v.Incomes = append(v.Incomes, toIncomeView(in))
	}
	return v
}

func toCategoryTotalsView(t core.CategoryTotals) categoryTotalsView {
	return categoryTotalsView{
		FuelCents:        t.Fuel.Cents,
		MaintenanceCents: t.Maintenance.Cents,
		OtherCents:       t.Other.Cents,
	}
}

func toWeekSummaryView(w core.Week, s core.WeekSummary) weekSummaryView {
	return weekSummaryView{
		WeekID:             w.ID,
		Label:              w.Label(),
		StartDate:          core.FormatDate(w.StartDate),
		EndDate:            core.FormatDate(w.EndDate),
		TotalIncomeCents:   s.TotalIncome.Cents,
		TotalExpensesCents: s.TotalExpenses.Cents,
		NetEarningsCents:   s.NetEarnings.Cents,
		ExpensesByCategory: toCategoryTotalsView(s.ExpensesByCategory),
	}
}

func toMonthSummaryView(s core.MonthSummary) monthSummaryView {
	return monthSummaryView{
		Year:               s.Year,
		Month:              int(s.Month),
		Label:              core.MonthYearLabel(s.Year, s.Month),
		TotalIncomeCents:   s.TotalIncome.Cents,
		TotalExpensesCents: s.TotalExpenses.Cents,
		NetEarningsCents:   s.NetEarnings.Cents,
		ExpensesByCategory: toCategoryTotalsView(s.ExpensesByCategory),
		NumberOfWeeks:      s.NumberOfWeeks,
	}
}

func toYearSummaryView(s core.YearSummary) yearSummaryView {
	v := yearSummaryView{
		Year:               s.Year,
		TotalIncomeCents:   s.TotalIncome.Cents,
		TotalExpensesCents: s.TotalExpenses.Cents,
		NetEarningsCents:   s.NetEarnings.Cents,
		ExpensesByCategory: toCategoryTotalsView(s.ExpensesByCategory),
		MonthlyBreakdown:   make([]monthSummaryView, 0, len(s.MonthlyBreakdown)),
		NumberOfWeeks:      s.NumberOfWeeks,
	}
	for _, m := range s.MonthlyBreakdown {
		v.MonthlyBreakdown = append(v.MonthlyBreakdown, toMonthSummaryView(m))
	}
	return v
}
