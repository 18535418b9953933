// Command export-report writes the yearly earnings report for one user
// to the configured Google spreadsheet and exits.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"haulbooks/internal/cli"
	"haulbooks/internal/core"
	gsheet "haulbooks/internal/export/google"
	"haulbooks/internal/log"
)

func main() {
	year := flag.Int("year", time.Now().UTC().Year(), "report year")
	flag.Parse()

	logger := cli.SetupLogger(log.ComponentExport)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.ExportEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required to export a report")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, cleanup := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if cleanup != nil {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	}()

	client, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	state, err := store.LoadUserData(ctx, cfg.UserID)
	if err != nil {
		logger.Error("Failed to load user data", log.FieldError, err, log.FieldUserID, cfg.UserID)
		os.Exit(1)
	}

	report := core.SummarizeYear(state.Weeks, *year)
	if err := client.WriteYearReport(ctx, report); err != nil {
		logger.Error("Failed to write year report", log.FieldError, err, log.FieldYear, *year)
		os.Exit(1)
	}

	logger.Info("Year report written",
		log.FieldYear, *year,
		log.FieldUserID, cfg.UserID,
		"weeks", len(state.Weeks),
		"net_cents", report.NetEarnings.Cents)
}
