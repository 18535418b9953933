package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFuel        ExpenseCategory = "fuel"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

type (
	// ExpenseCategory is the closed set of expense categories. Anything
	// outside {fuel, maintenance, other} is rejected at validation time.
	ExpenseCategory string

	Money struct {
		Cents int64
	}

	// Expense is a single spending record attached to a week.
	Expense struct {
		ID          string
		WeekID      string
		UserID      string
		Date        time.Time
		Amount      Money
		Category    ExpenseCategory
		Description *string
		CreatedAt   time.Time
	}

	// Income is a single earning record attached to a week. Same shape as
	// Expense minus the category.
	Income struct {
		ID          string
		WeekID      string
		UserID      string
		Date        time.Time
		Amount      Money
		Description *string
		CreatedAt   time.Time
	}

	// Week is the Sunday-to-Saturday bucket that owns a set of expense and
	// income records. StartDate is always a Sunday at midnight and EndDate
	// is the following Saturday at 23:59:59.999.
	Week struct {
		ID        string
		StartDate time.Time
		EndDate   time.Time
		Expenses  []Expense
		Incomes   []Income
	}

	// ExpenseInput is the user-entered payload for creating or updating an
	// expense; ids and ownership are assigned by the persistence layer.
	ExpenseInput struct {
		Date        time.Time
		Amount      Money
		Category    ExpenseCategory
		Description *string
	}

	// IncomeInput is the user-entered payload for an income record.
	IncomeInput struct {
		Date        time.Time
		Amount      Money
		Description *string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrWeekNotFound    = errors.New("week not found")
	ErrRecordNotFound  = errors.New("record not found")
)

// Categories returns every valid expense category in display order.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{CategoryFuel, CategoryMaintenance, CategoryOther}
}

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryFuel, CategoryMaintenance, CategoryOther:
		return true
	default:
		return false
	}
}

func (c ExpenseCategory) String() string {
	return string(c)
}

// ParseCategory converts user input into an ExpenseCategory.
func ParseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (in ExpenseInput) Validate() error {
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if !in.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

func (in IncomeInput) Validate() error {
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	return in.Amount.Validate()
}

func (e Expense) Validate() error {
	return ExpenseInput{Date: e.Date, Amount: e.Amount, Category: e.Category}.Validate()
}

func (i Income) Validate() error {
	return IncomeInput{Date: i.Date, Amount: i.Amount}.Validate()
}

// Contains reports whether a calendar date falls inside the week's range.
// Comparison uses the normalized YYYY-MM-DD form so time-of-day and zone
// never influence membership.
func (w Week) Contains(t time.Time) bool {
	d := FormatDate(t)
	return d >= FormatDate(w.StartDate) && d <= FormatDate(w.EndDate)
}

// Label renders the week's display range, e.g. "Jan 5, 2025 - Jan 11, 2025".
func (w Week) Label() string {
	return WeekLabel(FormatDate(w.StartDate), FormatDate(w.EndDate))
}
