package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"haulbooks/internal/core"

	ports "haulbooks/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	weeksSheet    string
	// Base name without year (e.g. "Report"); code prefixes the year.
	reportBase string
}

// Ensure interface conformance
var (
	_ ports.SummaryWriter = (*Client)(nil)
	_ ports.ReportWriter  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_WEEKS_SHEET_NAME (default "Weeks"),
// GOOGLE_REPORT_SHEET_NAME (default "Report", year-prefixed per report).
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	weeksSheet := strings.TrimSpace(os.Getenv("GOOGLE_WEEKS_SHEET_NAME"))
	if weeksSheet == "" {
		weeksSheet = "Weeks"
	}
	reportBase := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET_NAME"))
	if reportBase == "" {
		reportBase = "Report"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		weeksSheet:    weeksSheet,
		reportBase:    reportBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendWeekSummary appends one row per week to the weeks sheet:
// label, start, end, fuel, maintenance, other, expenses, income, net.
// Re-exporting a week appends a fresh row; the sheet keeps history.
func (c *Client) AppendWeekSummary(ctx context.Context, week core.Week, s core.WeekSummary) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		week.Label(),
		core.FormatDate(week.StartDate),
		core.FormatDate(week.EndDate),
		s.ExpensesByCategory.Fuel.Dollars(),
		s.ExpensesByCategory.Maintenance.Dollars(),
		s.ExpensesByCategory.Other.Dollars(),
		s.TotalExpenses.Dollars(),
		s.TotalIncome.Dollars(),
		s.NetEarnings.Dollars(),
	}

	rng := fmt.Sprintf("%s!A:I", c.weeksSheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.weeksSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Appended week summary row",
		"week", week.Label(),
		"range", ref)

	return ref, nil
}

// WriteYearReport overwrites the year sheet with a header row plus one row
// per month. The sheet must already exist in the spreadsheet.
func (c *Client) WriteYearReport(ctx context.Context, r core.YearSummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName := fmt.Sprintf("%d %s", r.Year, c.reportBase)
	values := [][]any{
		{"Month", "Fuel", "Maintenance", "Other", "Expenses", "Income", "Net", "Weeks"},
	}
	for _, m := range r.MonthlyBreakdown {
		values = append(values, []any{
			m.Month.String(),
			m.ExpensesByCategory.Fuel.Dollars(),
			m.ExpensesByCategory.Maintenance.Dollars(),
			m.ExpensesByCategory.Other.Dollars(),
			m.TotalExpenses.Dollars(),
			m.TotalIncome.Dollars(),
			m.NetEarnings.Dollars(),
			m.NumberOfWeeks,
		})
	}
	values = append(values, []any{
		"Total",
		r.ExpensesByCategory.Fuel.Dollars(),
		r.ExpensesByCategory.Maintenance.Dollars(),
		r.ExpensesByCategory.Other.Dollars(),
		r.TotalExpenses.Dollars(),
		r.TotalIncome.Dollars(),
		r.NetEarnings.Dollars(),
		r.NumberOfWeeks,
	})

	rng := fmt.Sprintf("%s!A1:H%d", sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", sheetName, err)
	}

	slog.InfoContext(ctx, "Wrote year report",
		"year", r.Year,
		"sheet", sheetName,
		"rows", len(values),
		"exported_at", time.Now().Format(time.RFC3339))

	return nil
}
