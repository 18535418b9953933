// Package core holds the week-bucketing and aggregation engine: the pure
// date math that assigns every calendar date to its Sunday-to-Saturday
// week, and the rollups that turn weeks of records into weekly, monthly
// and yearly summaries.
package core

import "time"

// dateLayout is the canonical YYYY-MM-DD form. All range comparisons go
// through this representation; never compare raw time.Time values for
// bucket membership.
const dateLayout = "2006-01-02"

// WeekRangeOf returns the Sunday-to-Saturday range containing t. The start
// is truncated to midnight, the end is the following Saturday at
// 23:59:59.999. Pure and total: every date maps to exactly one range.
func WeekRangeOf(t time.Time) (start, end time.Time) {
	day := t.Day() - int(t.Weekday()) // back up to Sunday
	start = time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC)
	end = EndOfDay(start.AddDate(0, 0, 6))
	return start, end
}

// EndOfDay truncates t forward to 23:59:59.999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// FormatDate renders the canonical YYYY-MM-DD key for a date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatForDisplay renders a YYYY-MM-DD string for humans, e.g. "Jan 1, 2025".
// Display only; never used in comparisons.
func FormatForDisplay(dateStr string) string {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format("Jan 2, 2006")
}

// WeekLabel composes the display label for a week range,
// e.g. "Jan 5, 2025 - Jan 11, 2025".
func WeekLabel(startStr, endStr string) string {
	return FormatForDisplay(startStr) + " - " + FormatForDisplay(endStr)
}

// WeekNumber returns the 1-based week-of-year index for t, counting weeks
// from January 1 with Sunday starts.
func WeekNumber(t time.Time) int {
	firstDay := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	pastDays := int(t.Sub(firstDay).Hours() / 24)
	return (pastDays+int(firstDay.Weekday()))/7 + 1
}

// MonthYearLabel renders e.g. "January 2025" for report headings.
func MonthYearLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
