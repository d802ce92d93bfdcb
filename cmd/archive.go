package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timeutil"
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Store totals of past days in the history database",
	Long: `Compute the worked total of every day before today and store it in the
history database next to the log file. Archiving a day again replaces its
total. The log file itself is not changed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		archiveDays(cmd.Context())
	},
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived daily totals",
	Long: `Show daily totals stored by 'punch archive'.

Without flags the last 7 days are shown.

Examples:
  punch history --last 30
  punch history --from 2024-01-01 --to 2024-03-31`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		lastDays, _ := cmd.Flags().GetInt("last")
		showHistory(cmd.Context(), fromStr, toStr, lastDays)
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(historyCmd)
	addRangeFlags(historyCmd)
}

func archiveDays(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	services, ok := bootstrap()
	if !ok {
		return
	}

	store, err := services.OpenHistory()
	if err != nil {
		fail("Failed to open history database", err,
			fmt.Sprintf("Check that the directory is writable: %s", services.HistoryPath()))
		return
	}
	defer func() { _ = store.Close() }()

	totals, err := services.Tracker.Archive(ctx, store)
	if errors.Is(err, service.ErrNothingToArchive) {
		_, _ = fmt.Fprintln(deps.Stdout, "Nothing to archive")
		return
	}
	if err != nil {
		fail("Failed to archive", err, "")
		return
	}

	var total int64
	for _, d := range totals {
		total += d.WorkedSeconds
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Archived %d %s (%s) to %s\n",
		len(totals), cli.Pluralize("day", len(totals)), cli.FormatDuration(total), services.HistoryPath())
}

func showHistory(ctx context.Context, fromStr, toStr string, lastDays int) {
	if ctx == nil {
		ctx = context.Background()
	}

	services, err := deps.Services()
	if err != nil {
		fail("Failed to initialize", err, "Check your configuration with 'punch config'")
		return
	}

	start, end, err := timeutil.ParseDateRangeFlags(fromStr, toStr, lastDays, deps.Now())
	if err != nil {
		fail("Invalid date range", err, "Use either --last N or --from/--to, dates as YYYY-MM-DD")
		return
	}

	store, err := services.OpenHistory()
	if err != nil {
		fail("Failed to open history database", err, "")
		return
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(ctx, start, end)
	if err != nil {
		fail("Failed to read history", err, "")
		return
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No archived days for %s\n", cli.FormatDateRangeForDisplay(start, end))
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Run 'punch archive' to store finished days")
		return
	}

	total, err := store.Total(ctx, start, end)
	if err != nil {
		fail("Failed to read history", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "History for %s:\n", cli.FormatDateRangeForDisplay(start, end))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))
	for _, e := range entries {
		_, _ = fmt.Fprintf(deps.Stdout, "%s  %s  %6s h\n",
			e.Day.Format("Mon 2006-01-02"), cli.FormatClock(e.WorkedSeconds), cli.DecimalHours(e.WorkedSeconds))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s (%s h)\n", cli.FormatDuration(total), cli.DecimalHours(total))
}
