package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"haulbooks/internal/core"
)

type expenseRequest struct {
	Date        string  `json:"date"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

// parse converts the raw payload into a validated ExpenseInput. Amounts
// arrive as decimal strings ("350.00") and are stored as cents.
func (req expenseRequest) parse() (core.ExpenseInput, error) {
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.ExpenseInput{}, err
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.ExpenseInput{}, core.ErrInvalidAmount
	}

	category, err := core.ParseCategory(req.Category)
	if err != nil {
		return core.ExpenseInput{}, err
	}

	in := core.ExpenseInput{
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: sanitizeDescription(req.Description),
	}
	return in, in.Validate()
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	expense, err := s.ledger.AddExpense(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.expensesCreated, 1)
	s.invalidateSummaries(expense.Date)

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", expense.ID,
		"week_id", expense.WeekID,
		"amount_cents", expense.Amount.Cents,
		"category", expense.Category)

	writeJSON(w, http.StatusCreated, toExpenseView(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	expense, err := s.ledger.UpdateExpense(r.Context(), core.Expense{
		ID:          id,
		Date:        in.Date,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.recordsUpdated, 1)
	s.invalidateSummaries(expense.Date)

	writeJSON(w, http.StatusOK, toExpenseView(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.recordsDeleted, 1)
	s.invalidateAllSummaries()

	w.WriteHeader(http.StatusNoContent)
}
