package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"haulbooks/internal/core"
)

// handleWeekSummary resolves the week containing the requested date and
// returns its rollup. Unknown dates produce a fresh zeroed bucket, so
// this never 404s for a valid date.
func (s *Server) handleWeekSummary(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	week, summary, err := s.ledger.WeeklySummary(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWeekSummaryView(week, summary))
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if month < 1 || month > 12 {
		writeError(w, http.StatusUnprocessableEntity, "month must be 1-12")
		return
	}

	key := monthKey(year, time.Month(month))
	if cached, found := s.monthCache.Get(key); found {
		slog.DebugContext(r.Context(), "Month summary cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, toMonthSummaryView(cached))
		return
	}

	summary := s.ledger.MonthlySummary(year, time.Month(month))
	s.monthCache.Set(key, summary)

	writeJSON(w, http.StatusOK, toMonthSummaryView(summary))
}

func (s *Server) handleYearSummary(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", time.Now().UTC().Year())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := strconv.Itoa(year)
	if cached, found := s.yearCache.Get(key); found {
		slog.DebugContext(r.Context(), "Year summary cache hit", "year", year)
		writeJSON(w, http.StatusOK, toYearSummaryView(cached))
		return
	}

	summary := s.ledger.YearlySummary(year)
	s.yearCache.Set(key, summary)

	writeJSON(w, http.StatusOK, toYearSummaryView(summary))
}

func monthKey(year int, month time.Month) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(int(month))
}

// invalidateSummaries drops cached rollups affected by a write on the
// given date. A boundary week belongs to the months of both its start
// and its end, so both get invalidated.
func (s *Server) invalidateSummaries(date time.Time) {
	start, end := core.WeekRangeOf(date)

	s.monthCache.Delete(monthKey(start.Year(), start.Month()))
	s.monthCache.Delete(monthKey(end.Year(), end.Month()))
	s.yearCache.Delete(strconv.Itoa(start.Year()))
	s.yearCache.Delete(strconv.Itoa(end.Year()))
}

// invalidateAllSummaries is the blunt fallback for deletes, where the
// record's date is no longer known.
func (s *Server) invalidateAllSummaries() {
	s.monthCache.Clear()
	s.yearCache.Clear()
}
