package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"haulbooks/internal/core"
)

type incomeRequest struct {
	Date        string  `json:"date"`
	Amount      string  `json:"amount"`
	Description *string `json:"description"`
}

func (req incomeRequest) parse() (core.IncomeInput, error) {
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.IncomeInput{}, err
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.IncomeInput{}, core.ErrInvalidAmount
	}

	in := core.IncomeInput{
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Description: sanitizeDescription(req.Description),
	}
	return in, in.Validate()
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	income, err := s.ledger.AddIncome(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.incomesCreated, 1)
	s.invalidateSummaries(income.Date)

	slog.InfoContext(r.Context(), "Income created",
		"income_id", income.ID,
		"week_id", income.WeekID,
		"amount_cents", income.Amount.Cents)

	writeJSON(w, http.StatusCreated, toIncomeView(income))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	income, err := s.ledger.UpdateIncome(r.Context(), core.Income{
		ID:          id,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.recordsUpdated, 1)
	s.invalidateSummaries(income.Date)

	writeJSON(w, http.StatusOK, toIncomeView(income))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteIncome(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.recordsDeleted, 1)
	s.invalidateAllSummaries()

	w.WriteHeader(http.StatusNoContent)
}
