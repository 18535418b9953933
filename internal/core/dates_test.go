package core

import (
	"testing"
	"time"
)

func TestWeekRangeOfStartsOnSunday(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),   // a Sunday
		time.Date(2025, 1, 8, 14, 30, 0, 0, time.UTC), // a Wednesday
		time.Date(2025, 1, 11, 23, 59, 0, 0, time.UTC), // a Saturday
		time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), // year boundary
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 6, 0, 0, 0, time.UTC), // leap day
	}
	for _, d := range dates {
		start, end := WeekRangeOf(d)
		if start.Weekday() != time.Sunday {
			t.Fatalf("WeekRangeOf(%v) start=%v, want Sunday", d, start.Weekday())
		}
		if h, m, s := start.Clock(); h != 0 || m != 0 || s != 0 {
			t.Fatalf("WeekRangeOf(%v) start not truncated to midnight: %v", d, start)
		}
		if got := FormatDate(end); got != FormatDate(start.AddDate(0, 0, 6)) {
			t.Fatalf("WeekRangeOf(%v) end=%s, want start+6d", d, got)
		}
		if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
			t.Fatalf("WeekRangeOf(%v) end not at end of day: %v", d, end)
		}
	}
}

func TestWeekRangeOfSameWeekSameRange(t *testing.T) {
	// Every day of the Jan 5 - Jan 11 2025 week must resolve to the same range.
	sunday := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	wantStart, wantEnd := WeekRangeOf(sunday)
	for i := 0; i < 7; i++ {
		d := sunday.AddDate(0, 0, i)
		start, end := WeekRangeOf(d)
		if !start.Equal(wantStart) || !end.Equal(wantEnd) {
			t.Fatalf("day %d resolves to [%v, %v], want [%v, %v]", i, start, end, wantStart, wantEnd)
		}
	}
	// The next day belongs to the next week.
	next, _ := WeekRangeOf(sunday.AddDate(0, 0, 7))
	if next.Equal(wantStart) {
		t.Fatalf("next Sunday resolved to the previous week")
	}
}

func TestWeekRangeOfSpansBoundaries(t *testing.T) {
	// Dec 31 2024 is a Tuesday; its week runs Dec 29 2024 - Jan 4 2025.
	start, end := WeekRangeOf(time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC))
	if got := FormatDate(start); got != "2024-12-29" {
		t.Fatalf("start=%s, want 2024-12-29", got)
	}
	if got := FormatDate(end); got != "2025-01-04" {
		t.Fatalf("end=%s, want 2025-01-04", got)
	}
}

func TestFormatAndParseDate(t *testing.T) {
	d := time.Date(2025, 1, 5, 18, 45, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2025-01-05" {
		t.Fatalf("FormatDate=%q", got)
	}
	parsed, err := ParseDate("2025-01-05")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if parsed.Year() != 2025 || parsed.Month() != time.January || parsed.Day() != 5 {
		t.Fatalf("ParseDate returned %v", parsed)
	}
	if _, err := ParseDate("01/05/2025"); err == nil {
		t.Fatalf("expected error for non-canonical format")
	}
}

func TestFormatForDisplay(t *testing.T) {
	if got := FormatForDisplay("2025-01-01"); got != "Jan 1, 2025" {
		t.Fatalf("FormatForDisplay=%q", got)
	}
	// Unparseable input passes through unchanged.
	if got := FormatForDisplay("garbage"); got != "garbage" {
		t.Fatalf("FormatForDisplay fallback=%q", got)
	}
}

func TestWeekLabel(t *testing.T) {
	got := WeekLabel("2025-01-05", "2025-01-11")
	if got != "Jan 5, 2025 - Jan 11, 2025" {
		t.Fatalf("WeekLabel=%q", got)
	}
}

func TestWeekNumber(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 2}, // first Sunday starts week 2
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 53},
	}
	for _, tc := range cases {
		if got := WeekNumber(tc.date); got != tc.want {
			t.Fatalf("WeekNumber(%v)=%d, want %d", tc.date, got, tc.want)
		}
	}
}
