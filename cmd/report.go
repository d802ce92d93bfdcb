package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/timeutil"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show daily worked totals",
	Long: `Show the worked time per day and statistics for a date range.

Without flags the report covers the last 7 days.

Examples:
  punch report                                  Last 7 days
  punch report --last 30                        Last 30 days
  punch report --from 2024-01-01                From a date up to today
  punch report --from 2024-01-01 --to 2024-01-31`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		lastDays, _ := cmd.Flags().GetInt("last")
		showReport(fromStr, toStr, lastDays)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addRangeFlags(reportCmd)
}

// addRangeFlags adds --from, --to and --last to cmd
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().Int("last", 0, "Last N days, including today")
}

func showReport(fromStr, toStr string, lastDays int) {
	services, ok := bootstrap()
	if !ok {
		return
	}

	start, end, err := timeutil.ParseDateRangeFlags(fromStr, toStr, lastDays, services.Tracker.Now())
	if err != nil {
		fail("Invalid date range", err, "Use either --last N or --from/--to, dates as YYYY-MM-DD")
		return
	}

	report := services.Tracker.Report(start, end)

	_, _ = fmt.Fprintf(deps.Stdout, "Report for %s:\n", cli.FormatDateRangeForDisplay(report.Start, report.End))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))
	for _, d := range report.Days {
		_, _ = fmt.Fprintf(deps.Stdout, "%s  %s  %6s h\n",
			d.Day.Format("Mon 2006-01-02"), cli.FormatClock(d.WorkedSeconds), cli.DecimalHours(d.WorkedSeconds))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))

	st := report.Statistics
	_, _ = fmt.Fprintf(deps.Stdout, "Total:            %s (%s h)\n", cli.FormatDuration(st.TotalSeconds), cli.DecimalHours(st.TotalSeconds))
	_, _ = fmt.Fprintf(deps.Stdout, "Days with work:   %d %s\n", st.DaysWithWork, cli.Pluralize("day", st.DaysWithWork))
	_, _ = fmt.Fprintf(deps.Stdout, "Average per day:  %s\n", cli.FormatDuration(int64(st.AverageSecondsPerDay)))
	if st.CorrectionSeconds > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Break corrections: %s\n", cli.FormatDuration(st.CorrectionSeconds))
	}
}
