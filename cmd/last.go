package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/filter"
)

// lastCmd represents the last command
var lastCmd = &cobra.Command{
	Use:   "last [work|break|breakadd]...",
	Short: "Show the latest record",
	Long: `Show the latest record, optionally restricted to some record types.

Examples:
  punch last              Latest record of any type
  punch last work         When work was last started
  punch last work break   Latest state change`,
	ValidArgs: []string{"work", "break", "breakadd"},
	Run: func(cmd *cobra.Command, args []string) {
		showLast(args)
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

func showLast(args []string) {
	types, err := filter.ParseTypes(args)
	if err != nil {
		fail("Invalid record type", err, "Valid types: work, break, breakadd")
		return
	}

	services, ok := bootstrap()
	if !ok {
		return
	}

	rec, found := services.Tracker.Last(types...)
	if !found {
		_, _ = fmt.Fprintln(deps.Stdout, "No records found")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, cli.FormatRecord(rec))
}
