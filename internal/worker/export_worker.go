package worker

import (
	"context"
	"fmt"
	"log/slog"

	"haulbooks/internal/amqp"
	"haulbooks/internal/core"
	"haulbooks/internal/export"
	"haulbooks/internal/ledger"
)

// ExportWorker turns week sync messages into summary rows on the
// configured sink. It always re-reads the week from the store so the
// exported row reflects the latest state, not the message.
type ExportWorker struct {
	store ledger.Store
	sink  export.SummaryWriter
}

func NewExportWorker(store ledger.Store, sink export.SummaryWriter) *ExportWorker {
	return &ExportWorker{store: store, sink: sink}
}

// HandleWeekSync processes a single week sync message.
func (w *ExportWorker) HandleWeekSync(ctx context.Context, msg *amqp.WeekSyncMessage) error {
	slog.InfoContext(ctx, "Processing week sync message",
		"week_id", msg.WeekID,
		"user_id", msg.UserID)

	week, err := w.store.GetWeek(ctx, msg.WeekID)
	if err != nil {
		return fmt.Errorf("get week %s: %w", msg.WeekID, err)
	}

	summary := core.SummarizeWeek(week)

	ref, err := w.sink.AppendWeekSummary(ctx, week, summary)
	if err != nil {
		return fmt.Errorf("append week summary: %w", err)
	}

	slog.InfoContext(ctx, "Exported week summary",
		"week_id", week.ID,
		"row_ref", ref,
		"net_cents", summary.NetEarnings.Cents)

	return nil
}

// ExportUserWeeks re-exports every stored week for a user. Backup path
// for recovering from missed messages or sink downtime.
func (w *ExportWorker) ExportUserWeeks(ctx context.Context, userID string) error {
	state, err := w.store.LoadUserData(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}

	if len(state.Weeks) == 0 {
		slog.InfoContext(ctx, "No weeks to export", "user_id", userID)
		return nil
	}

	exported := 0
	for _, week := range state.Weeks {
		if _, err := w.sink.AppendWeekSummary(ctx, week, core.SummarizeWeek(week)); err != nil {
			slog.ErrorContext(ctx, "Failed to export week",
				"week_id", week.ID, "error", err)
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Bulk export completed",
		"user_id", userID,
		"total", len(state.Weeks),
		"exported", exported)

	return nil
}
