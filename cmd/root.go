package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "A work/break time tracker",
	Long: `punch records when you start working and when you take a break,
and tells you how long you worked today, this week or over any range.

Usage:
  punch                       Show the current state and today's total
  punch work                  Start working
  punch break                 Start a break
  punch toggle                Switch between work and break
  punch add-break 30m         Subtract a break you forgot to record
  punch report --last 7       Daily totals for the last 7 days
  punch tui                   Interactive terminal UI
  punch serve                 Local HTTP API

Duration format: Yh (hours), Ym (minutes), or XhYm (combined)
Examples: 2h, 30m, 1h30m`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current state and totals",
	Long:  `Show whether you are working or on a break, since when, and the worked time today and this week.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check log file health",
	Long:  `Validate the tracking log and report on its health, including malformed rows.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateStorage()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(validateCmd)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"punch version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// showStatus prints the current state with today's and this week's totals
func showStatus() {
	services, ok := bootstrap()
	if !ok {
		return
	}

	status := services.Tracker.Status()

	state := cli.FormatState(status.State)
	if status.State != entry.Unknown {
		state += " since " + status.Since.Local().Format("15:04")
		if status.Since.Local().Format("2006-01-02") != status.Now.Local().Format("2006-01-02") {
			state += status.Since.Local().Format(" (Mon Jan 2)")
		}
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Status:    %s\n", state)
	_, _ = fmt.Fprintf(deps.Stdout, "Today:     %s (%s h)\n",
		cli.FormatClock(status.TodaySeconds), cli.DecimalHours(status.TodaySeconds))
	_, _ = fmt.Fprintf(deps.Stdout, "This week: %s (%s h) since %s\n",
		cli.FormatClock(status.WeekSeconds), cli.DecimalHours(status.WeekSeconds),
		status.WeekStart.Format("Mon 2006-01-02"))
}

// validateStorage checks the log file health and reports status
func validateStorage() {
	services, err := deps.Services()
	if err != nil {
		fail("Failed to initialize", err, "Check your configuration with 'punch config'")
		return
	}

	storagePath := services.Tracker.StoragePath()
	health, err := services.Tracker.Validate()
	if err != nil {
		fail("Failed to validate log file", err, fmt.Sprintf("Check that the file is readable: %s", storagePath))
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Log file: %s\n", storagePath)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	_, _ = fmt.Fprintf(deps.Stdout, "Total lines:    %d\n", health.TotalLines)
	_, _ = fmt.Fprintf(deps.Stdout, "Header rows:    %d\n", health.HeaderLines)
	_, _ = fmt.Fprintf(deps.Stdout, "Valid records:  %d\n", health.ValidRecords)
	_, _ = fmt.Fprintf(deps.Stdout, "Malformed rows: %d\n", health.CorruptedRows)

	if len(health.Warnings) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		_, _ = fmt.Fprintln(deps.Stdout, "Malformed rows:")
		for _, warning := range health.Warnings {
			_, _ = fmt.Fprintln(deps.Stdout, cli.FormatCorruptionWarning(warning))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.CorruptedRows == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Log file is healthy")
	} else {
		_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Log file has %d malformed %s (they are dropped on the next write)\n",
			health.CorruptedRows, cli.Pluralize("row", health.CorruptedRows))
	}
}
