package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"haulbooks/internal/core"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistence collaborator: it owns the weeks,
// expenses and incomes tables and hands fully-hydrated core values back to
// the ledger. All failures are wrapped and propagated unchanged; retries
// are the caller's business.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadUserData returns the full working set for a user: every week with
// its records attached, newest week first, plus the id of the week
// containing today when it already exists. Weeks, expenses and incomes are
// fetched concurrently.
func (r *SQLiteRepository) LoadUserData(ctx context.Context, userID string) (core.AppState, error) {
	var (
		weeks    []core.Week
		expenses []core.Expense
		incomes  []core.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weeks, err = r.listWeeks(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = r.listExpenses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = r.listIncomes(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.AppState{}, fmt.Errorf("load user data: %w", err)
	}

	byWeek := make(map[string]*core.Week, len(weeks))
	for i := range weeks {
		byWeek[weeks[i].ID] = &weeks[i]
	}
	for _, e := range expenses {
		if w, ok := byWeek[e.WeekID]; ok {
			w.Expenses = append(w.Expenses, e)
		}
	}
	for _, in := range incomes {
		if w, ok := byWeek[in.WeekID]; ok {
			w.Incomes = append(w.Incomes, in)
		}
	}

	state := core.AppState{Weeks: weeks}
	start, end := core.WeekRangeOf(time.Now().UTC())
	if current := core.FindWeek(weeks, core.FormatDate(start), core.FormatDate(end)); current != nil {
		state.CurrentWeekID = current.ID
	}

	slog.InfoContext(ctx, "User data loaded",
		"user_id", userID,
		"weeks", len(weeks),
		"expenses", len(expenses),
		"incomes", len(incomes))

	return state, nil
}

// GetOrCreateWeek resolves the week range owning date and returns the
// matching week, creating it on first reference. Existing weeks come back
// with their records attached.
func (r *SQLiteRepository) GetOrCreateWeek(ctx context.Context, userID string, date time.Time) (core.Week, error) {
	start, end := core.WeekRangeOf(date)
	startStr, endStr := core.FormatDate(start), core.FormatDate(end)

	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM weeks WHERE user_id = ? AND start_date = ? AND end_date = ?`,
		userID, startStr, endStr).Scan(&id)
	switch {
	case err == nil:
		return r.GetWeek(ctx, id)
	case errors.Is(err, sql.ErrNoRows):
		// First reference to this range; create the bucket.
	default:
		return core.Week{}, fmt.Errorf("find week: %w", err)
	}

	id = uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO weeks (id, user_id, start_date, end_date) VALUES (?, ?, ?, ?)`,
		id, userID, startStr, endStr)
	if err != nil {
		return core.Week{}, fmt.Errorf("create week: %w", err)
	}

	slog.InfoContext(ctx, "Week created",
		"week_id", id,
		"start_date", startStr,
		"end_date", endStr)

	return core.Week{ID: id, StartDate: start, EndDate: end}, nil
}

// GetWeek returns a week with its expense and income records. The two
// record queries run concurrently, like the original load path.
func (r *SQLiteRepository) GetWeek(ctx context.Context, id string) (core.Week, error) {
	var (
		userID   string
		startStr string
		endStr   string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, start_date, end_date FROM weeks WHERE id = ?`, id).
		Scan(&userID, &startStr, &endStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Week{}, core.ErrWeekNotFound
	}
	if err != nil {
		return core.Week{}, fmt.Errorf("get week: %w", err)
	}

	week, err := weekFromRow(id, startStr, endStr)
	if err != nil {
		return core.Week{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		week.Expenses, err = r.expensesForWeek(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		week.Incomes, err = r.incomesForWeek(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Week{}, fmt.Errorf("get week records: %w", err)
	}
	return week, nil
}

// AddExpense persists a new expense for the given week and returns the
// stored record with its assigned id.
func (r *SQLiteRepository) AddExpense(ctx context.Context, weekID, userID string, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:          uuid.NewString(),
		WeekID:      weekID,
		UserID:      userID,
		Date:        in.Date,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, week_id, user_id, date, amount_cents, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.WeekID, e.UserID, core.FormatDate(e.Date), e.Amount.Cents, string(e.Category), e.Description, e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"week_id", e.WeekID,
		"amount_cents", e.Amount.Cents,
		"category", string(e.Category))

	return e, nil
}

// AddIncome persists a new income for the given week.
func (r *SQLiteRepository) AddIncome(ctx context.Context, weekID, userID string, in core.IncomeInput) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	rec := core.Income{
		ID:          uuid.NewString(),
		WeekID:      weekID,
		UserID:      userID,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, week_id, user_id, date, amount_cents, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.WeekID, rec.UserID, core.FormatDate(rec.Date), rec.Amount.Cents, rec.Description, rec.CreatedAt)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", rec.ID,
		"week_id", rec.WeekID,
		"amount_cents", rec.Amount.Cents)

	return rec, nil
}

// UpdateExpense rewrites a stored expense in place. Ownership and bucket
// assignment are immutable on update: week_id, user_id and created_at come
// from the stored row, not the caller.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT week_id, user_id, created_at FROM expenses WHERE id = ?`, e.ID).
		Scan(&e.WeekID, &e.UserID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, amount_cents = ?, category = ?, description = ? WHERE id = ?`,
		core.FormatDate(e.Date), e.Amount.Cents, string(e.Category), e.Description, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

// UpdateIncome rewrites a stored income in place, carrying the stored
// ownership fields like UpdateExpense.
func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT week_id, user_id, created_at FROM incomes WHERE id = ?`, in.ID).
		Scan(&in.WeekID, &in.UserID, &in.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("find income: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE incomes SET date = ?, amount_cents = ?, description = ? WHERE id = ?`,
		core.FormatDate(in.Date), in.Amount.Cents, in.Description, in.ID)
	if err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	return in, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (r *SQLiteRepository) listWeeks(ctx context.Context, userID string) ([]core.Week, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_date, end_date FROM weeks WHERE user_id = ? ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []core.Week
	for rows.Next() {
		var id, startStr, endStr string
		if err := rows.Scan(&id, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scan week: %w", err)
		}
		w, err := weekFromRow(id, startStr, endStr)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (r *SQLiteRepository) listExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, week_id, user_id, date, amount_cents, category, description, created_at
		 FROM expenses WHERE user_id = ? ORDER BY date DESC`, userID)
}

func (r *SQLiteRepository) listIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT id, week_id, user_id, date, amount_cents, description, created_at
		 FROM incomes WHERE user_id = ? ORDER BY date DESC`, userID)
}

func (r *SQLiteRepository) expensesForWeek(ctx context.Context, weekID string) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, week_id, user_id, date, amount_cents, category, description, created_at
		 FROM expenses WHERE week_id = ? ORDER BY created_at`, weekID)
}

func (r *SQLiteRepository) incomesForWeek(ctx context.Context, weekID string) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT id, week_id, user_id, date, amount_cents, description, created_at
		 FROM incomes WHERE week_id = ? ORDER BY created_at`, weekID)
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e        core.Expense
			dateStr  string
			category string
		)
		if err := rows.Scan(&e.ID, &e.WeekID, &e.UserID, &dateStr, &e.Amount.Cents, &category, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		e.Category = core.ExpenseCategory(category)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) queryIncomes(ctx context.Context, query string, args ...any) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in      core.Income
			dateStr string
		)
		if err := rows.Scan(&in.ID, &in.WeekID, &in.UserID, &dateStr, &in.Amount.Cents, &in.Description, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("income %s: %w", in.ID, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// weekFromRow rebuilds the canonical week-range times from stored date
// strings: start at midnight, end at 23:59:59.999.
func weekFromRow(id, startStr, endStr string) (core.Week, error) {
	start, err := core.ParseDate(startStr)
	if err != nil {
		return core.Week{}, fmt.Errorf("week %s start date: %w", id, err)
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		return core.Week{}, fmt.Errorf("week %s end date: %w", id, err)
	}
	return core.Week{ID: id, StartDate: start, EndDate: core.EndOfDay(end)}, nil
}
