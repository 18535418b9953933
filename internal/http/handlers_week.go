package http

import (
	"log/slog"
	"net/http"
	"strings"

	"haulbooks/internal/core"
)

type selectWeekRequest struct {
	Date string `json:"date"`
}

// handleSelectWeek resolves the week containing the given date, creating
// the bucket if it does not exist yet, and makes it the current week.
func (s *Server) handleSelectWeek(w http.ResponseWriter, r *http.Request) {
	var req selectWeekRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	week, err := s.ledger.SelectWeek(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Week selected",
		"week_id", week.ID,
		"start_date", core.FormatDate(week.StartDate))

	writeJSON(w, http.StatusOK, toWeekView(week))
}

func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	week, ok := s.ledger.CurrentWeek()
	if !ok {
		writeError(w, http.StatusNotFound, "no week selected")
		return
	}
	writeJSON(w, http.StatusOK, toWeekView(week))
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	state := s.ledger.State()

	views := make([]weekView, 0, len(state.Weeks))
	for _, week := range state.Weeks {
		views = append(views, toWeekView(week))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"weeks":           views,
		"current_week_id": state.CurrentWeekID,
	})
}
