package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for punch.

Views:
  - Tracker: current state, today and this week, toggle with space
  - History: daily totals of the last 7 or 30 days
  - Config: settings and theme selection

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-3: Jump to specific view
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() {
	services, ok := bootstrap()
	if !ok {
		return
	}

	if err := tui.Run(services); err != nil {
		fail("Failed to run TUI", err, "")
	}
}
