package core

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in      string
		want    ExpenseCategory
		wantErr bool
	}{
		{"fuel", CategoryFuel, false},
		{" Fuel ", CategoryFuel, false},
		{"MAINTENANCE", CategoryMaintenance, false},
		{"other", CategoryOther, false},
		{"food", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseCategory(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCategory(%q)=%q", tc.in, got)
		}
	}
}

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{
		Date:        day(2025, time.January, 6),
		Amount:      Money{Cents: 1000},
		Category:    CategoryFuel,
		Description: strptr("diesel, pilot travel center"),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Description is optional.
	good.Description = nil
	if err := good.Validate(); err != nil {
		t.Fatalf("nil description should validate: %v", err)
	}

	bads := []ExpenseInput{
		{Amount: Money{Cents: 1000}, Category: CategoryFuel},                               // zero date
		{Date: day(2025, time.January, 6), Category: CategoryFuel},                         // zero amount
		{Date: day(2025, time.January, 6), Amount: Money{Cents: -5}, Category: CategoryFuel}, // negative
		{Date: day(2025, time.January, 6), Amount: Money{Cents: 1000}, Category: "food"},   // open category
		{Date: day(2025, time.January, 6), Amount: Money{Cents: 1000}},                     // missing category
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIncomeInputValidate(t *testing.T) {
	good := IncomeInput{Date: day(2025, time.January, 6), Amount: Money{Cents: 50000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (IncomeInput{Amount: Money{Cents: 1}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
	if err := (IncomeInput{Date: day(2025, time.January, 6)}).Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
}

func TestWeekContains(t *testing.T) {
	w := weekOf("w1", 2025, time.January, 5) // Jan 5 - Jan 11
	cases := []struct {
		date time.Time
		want bool
	}{
		{day(2025, time.January, 5), true},
		{time.Date(2025, time.January, 11, 23, 0, 0, 0, time.UTC), true},
		{day(2025, time.January, 8), true},
		{day(2025, time.January, 4), false},
		{day(2025, time.January, 12), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.date); got != tc.want {
			t.Fatalf("Contains(%v)=%v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestWeekLabelMethod(t *testing.T) {
	w := weekOf("w1", 2025, time.January, 5)
	if got := w.Label(); got != "Jan 5, 2025 - Jan 11, 2025" {
		t.Fatalf("Label=%q", got)
	}
}
