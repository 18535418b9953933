package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"haulbooks/internal/ledger"
	"haulbooks/internal/ledger/memory"
)

type nopPublisher struct{}

func (nopPublisher) PublishWeekSync(context.Context, string, string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	svc := ledger.NewService(memory.New(), nopPublisher{}, "driver-1")
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s := NewServer(":0", svc)
	t.Cleanup(func() {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s returned %d", path, rec.Code)
		}
	}
}

func TestCreateExpense(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-10", "amount": "350.00", "category": "fuel", "description": "diesel fill-up"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var view expenseView
	decode(t, rec, &view)
	if view.AmountCents != 35000 {
		t.Errorf("AmountCents = %d, want 35000", view.AmountCents)
	}
	if view.Category != "fuel" {
		t.Errorf("Category = %q, want fuel", view.Category)
	}
	if view.Description == nil || *view.Description != "diesel fill-up" {
		t.Errorf("unexpected description: %v", view.Description)
	}
	if view.ID == "" || view.WeekID == "" {
		t.Errorf("missing ids in response: %+v", view)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown field", `{"date": "2025-06-10", "amount": "10", "category": "fuel", "extra": 1}`, http.StatusBadRequest},
		{"bad date", `{"date": "06/10/2025", "amount": "10", "category": "fuel"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"date": "2025-06-10", "amount": "abc", "category": "fuel"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"date": "2025-06-10", "amount": "0", "category": "fuel"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"date": "2025-06-10", "amount": "10", "category": "tolls"}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/expenses", tc.body)
			if rec.Code != tc.want {
				t.Errorf("got %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestCreateIncome(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/incomes",
		`{"date": "2025-06-10", "amount": "1200.50"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var view incomeView
	decode(t, rec, &view)
	if view.AmountCents != 120050 {
		t.Errorf("AmountCents = %d, want 120050", view.AmountCents)
	}
	if view.Description != nil {
		t.Errorf("expected nil description, got %v", view.Description)
	}
}

func TestSelectAndCurrentWeek(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-06-11"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("select week returned %d: %s", rec.Code, rec.Body.String())
	}

	var selected weekView
	decode(t, rec, &selected)
	if selected.StartDate != "2025-06-08" {
		t.Errorf("StartDate = %q, want 2025-06-08 (Sunday)", selected.StartDate)
	}
	if selected.EndDate != "2025-06-14" {
		t.Errorf("EndDate = %q, want 2025-06-14 (Saturday)", selected.EndDate)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/weeks/current", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("current week returned %d", rec.Code)
	}
	var current weekView
	decode(t, rec, &current)
	if current.ID != selected.ID {
		t.Errorf("current week %q, want selected %q", current.ID, selected.ID)
	}
}

func TestListWeeks(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-02-05"}`)
	doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-02-12"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/weeks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list weeks returned %d", rec.Code)
	}

	var resp struct {
		Weeks         []weekView `json:"weeks"`
		CurrentWeekID string     `json:"current_week_id"`
	}
	decode(t, rec, &resp)
	// Load selects today's week, then two more buckets were created.
	if len(resp.Weeks) != 3 {
		t.Errorf("expected 3 weeks, got %d", len(resp.Weeks))
	}
	if resp.CurrentWeekID == "" {
		t.Error("expected a current week id")
	}
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-10", "amount": "100.00", "category": "other"}`)
	var created expenseView
	decode(t, rec, &created)

	rec = doJSON(t, s, http.MethodPut, "/api/expenses/"+created.ID,
		`{"date": "2025-06-10", "amount": "125.00", "category": "maintenance"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	var updated expenseView
	decode(t, rec, &updated)
	if updated.AmountCents != 12500 || updated.Category != "maintenance" {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.WeekID != created.WeekID {
		t.Errorf("update must not move the record between weeks")
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", rec.Code)
	}
}

func TestWeekSummary(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-06-10"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-10", "amount": "350.00", "category": "fuel"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-11", "amount": "150.00", "category": "maintenance"}`)
	doJSON(t, s, http.MethodPost, "/api/incomes",
		`{"date": "2025-06-12", "amount": "1200.00"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/summary/week?date=2025-06-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("week summary returned %d: %s", rec.Code, rec.Body.String())
	}

	var view weekSummaryView
	decode(t, rec, &view)
	if view.TotalExpensesCents != 50000 {
		t.Errorf("TotalExpenses = %d, want 50000", view.TotalExpensesCents)
	}
	if view.TotalIncomeCents != 120000 {
		t.Errorf("TotalIncome = %d, want 120000", view.TotalIncomeCents)
	}
	if view.NetEarningsCents != 70000 {
		t.Errorf("NetEarnings = %d, want 70000", view.NetEarningsCents)
	}
	if view.ExpensesByCategory.FuelCents != 35000 {
		t.Errorf("Fuel = %d, want 35000", view.ExpensesByCategory.FuelCents)
	}
}

func TestWeekSummaryUnseenDateIsZero(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/summary/week?date=2030-01-09", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("week summary returned %d", rec.Code)
	}

	var view weekSummaryView
	decode(t, rec, &view)
	if view.NetEarningsCents != 0 || view.TotalExpensesCents != 0 {
		t.Errorf("fresh week should be zeroed: %+v", view)
	}
	if view.StartDate != "2030-01-06" {
		t.Errorf("StartDate = %q, want 2030-01-06 (Sunday)", view.StartDate)
	}
}

func TestMonthSummaryCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-06-10"}`)

	// Prime the cache with an empty month.
	rec := doJSON(t, s, http.MethodGet, "/api/summary/month?year=2025&month=6", "")
	var before monthSummaryView
	decode(t, rec, &before)
	if before.TotalExpensesCents != 0 {
		t.Fatalf("expected empty month, got %+v", before)
	}

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-10", "amount": "80.00", "category": "fuel"}`)

	rec = doJSON(t, s, http.MethodGet, "/api/summary/month?year=2025&month=6", "")
	var after monthSummaryView
	decode(t, rec, &after)
	if after.TotalExpensesCents != 8000 {
		t.Errorf("stale cache: TotalExpenses = %d, want 8000", after.TotalExpensesCents)
	}
	if after.NumberOfWeeks != 1 {
		t.Errorf("NumberOfWeeks = %d, want 1", after.NumberOfWeeks)
	}
}

func TestMonthSummaryRejectsBadMonth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/summary/month?year=2025&month=13", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("got %d, want 422", rec.Code)
	}
}

func TestYearSummaryBreakdown(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/weeks/select", `{"date": "2025-03-10"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-03-10", "amount": "60.00", "category": "other"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/summary/year?year=2025", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("year summary returned %d", rec.Code)
	}

	var view yearSummaryView
	decode(t, rec, &view)
	if len(view.MonthlyBreakdown) != 12 {
		t.Fatalf("expected 12 breakdown entries, got %d", len(view.MonthlyBreakdown))
	}
	if view.MonthlyBreakdown[0].Month != 1 {
		t.Errorf("breakdown must start at January, got month %d", view.MonthlyBreakdown[0].Month)
	}
	if view.MonthlyBreakdown[2].TotalExpensesCents != 6000 {
		t.Errorf("March expenses = %d, want 6000", view.MonthlyBreakdown[2].TotalExpensesCents)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"date": "2025-06-10", "amount": "10.00", "category": "fuel"}`)

	rec := doJSON(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", rec.Code)
	}

	var m map[string]any
	decode(t, rec, &m)
	if got, ok := m["expenses_created"].(float64); !ok || got != 1 {
		t.Errorf("expenses_created = %v, want 1", m["expenses_created"])
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("unexpected CSP: %q", csp)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want 405", rec.Code)
	}
}

func TestSummaryRejectsMalformedQueryInts(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/summary/month?year=abc",
		"/api/summary/month?year=2025&month=abc",
		"/api/summary/year?year=abc",
	} {
		rec := doJSON(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s returned %d, want 422", path, rec.Code)
		}
	}

	// Absent parameters still fall back to defaults.
	rec := doJSON(t, s, http.MethodGet, "/api/summary/month", "")
	if rec.Code != http.StatusOK {
		t.Errorf("default month summary returned %d", rec.Code)
	}
}

func TestMetricsCountSuspiciousRequests(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/wp-admin/setup.php", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("probe path returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", rec.Code)
	}

	var m map[string]any
	decode(t, rec, &m)
	if got, ok := m["suspicious_requests"].(float64); !ok || got != 1 {
		t.Errorf("suspicious_requests = %v, want 1", m["suspicious_requests"])
	}
	if _, ok := m["rate_limited_requests"].(float64); !ok {
		t.Errorf("rate_limited_requests missing from metrics: %v", m)
	}
}
