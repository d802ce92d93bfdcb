package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
)

// workCmd represents the work command
var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Start working",
	Long:  `Record the start of a work interval at the current time.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		recordEvent("work", (*service.TrackerService).StartWork)
	},
}

// breakCmd represents the break command
var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Start a break",
	Long:  `Record the start of a break at the current time. Time on a break is not counted.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		recordEvent("break", (*service.TrackerService).StartBreak)
	},
}

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between work and break",
	Long: `Start a break when working, otherwise start working.

Bind this to a hotkey to punch in and out with one key.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		recordEvent("toggle", (*service.TrackerService).Toggle)
	},
}

// addBreakCmd represents the add-break command
var addBreakCmd = &cobra.Command{
	Use:   "add-break <duration>",
	Short: "Subtract a break you forgot to record",
	Long: `Record a break correction: the given duration is subtracted from today's
worked time without changing the current state.

Examples:
  punch add-break 30m
  punch add-break 1h
  punch add-break 1h15m`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addBreak(args[0])
	},
}

func init() {
	rootCmd.AddCommand(workCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(addBreakCmd)
}

// recordEvent appends a Work or Break record through fn and prints the result
func recordEvent(action string, fn func(*service.TrackerService) (entry.Record, error)) {
	services, ok := bootstrap()
	if !ok {
		return
	}

	rec, err := fn(services.Tracker)
	if err != nil {
		_, since := services.Tracker.State()
		switch {
		case errors.Is(err, service.ErrAlreadyWorking):
			fail(fmt.Sprintf("Already working since %s", since.Local().Format("15:04")), nil,
				"Use 'punch break' to start a break")
		case errors.Is(err, service.ErrAlreadyOnBreak):
			fail(fmt.Sprintf("Already on a break since %s", since.Local().Format("15:04")), nil,
				"Use 'punch work' to start working")
		default:
			fail(fmt.Sprintf("Failed to record %s", action), err,
				fmt.Sprintf("Check that the file is writable: %s", services.Tracker.StoragePath()))
		}
		return
	}

	verb := "Started work"
	if rec.Type == entry.Break {
		verb = "Started break"
	}
	status := services.Tracker.Status()
	_, _ = fmt.Fprintf(deps.Stdout, "%s at %s (today: %s)\n",
		verb, rec.Time.Local().Format("15:04"), cli.FormatClock(status.TodaySeconds))
}

// addBreak parses the duration and appends a BreakAdd record
func addBreak(input string) {
	minutes, err := entry.ParseDuration(input)
	if err != nil {
		fail(fmt.Sprintf("Invalid duration '%s'", strings.TrimSpace(input)), err,
			"Use format like '30m' (minutes), '1h' (hours) or '1h30m', max 24h")
		return
	}

	services, ok := bootstrap()
	if !ok {
		return
	}

	rec, err := services.Tracker.AddBreak(time.Duration(minutes) * time.Minute)
	if err != nil {
		fail("Failed to record break", err,
			fmt.Sprintf("Check that the file is writable: %s", services.Tracker.StoragePath()))
		return
	}

	status := services.Tracker.Status()
	_, _ = fmt.Fprintf(deps.Stdout, "Subtracted %s break (today: %s)\n",
		cli.FormatDuration(rec.Correction()), cli.FormatClock(status.TodaySeconds))
}
