package export

import (
	"context"

	"haulbooks/internal/core"
)

// Ports for outbound report sinks.
type (
	SummaryWriter interface {
		AppendWeekSummary(ctx context.Context, week core.Week, s core.WeekSummary) (rowRef string, err error)
	}

	// ReportWriter publishes a full-year report with its monthly breakdown.
	ReportWriter interface {
		WriteYearReport(ctx context.Context, r core.YearSummary) error
	}
)
