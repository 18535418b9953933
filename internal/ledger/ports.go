package ledger

import (
	"context"
	"time"

	"haulbooks/internal/core"
)

// Ports for outbound collaborators.
type (
	// Store is the persistence collaborator contract. Implementations are
	// fallible; errors come back opaque and the service never retries.
	Store interface {
		LoadUserData(ctx context.Context, userID string) (core.AppState, error)
		GetOrCreateWeek(ctx context.Context, userID string, date time.Time) (core.Week, error)
		GetWeek(ctx context.Context, id string) (core.Week, error)
		AddExpense(ctx context.Context, weekID, userID string, in core.ExpenseInput) (core.Expense, error)
		AddIncome(ctx context.Context, weekID, userID string, in core.IncomeInput) (core.Income, error)
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateIncome(ctx context.Context, in core.Income) (core.Income, error)
		DeleteExpense(ctx context.Context, id string) error
		DeleteIncome(ctx context.Context, id string) error
	}

	// EventPublisher announces week mutations to the async export pipe.
	EventPublisher interface {
		PublishWeekSync(ctx context.Context, weekID, userID string) error
	}
)
