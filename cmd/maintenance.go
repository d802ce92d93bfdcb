package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/storage"
)

// compactCmd represents the compact command
var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Remove redundant records from the log",
	Long: `Remove records that do not change the state, such as a second Work
in a row on the same day. Break corrections are always kept.

Every command already compacts the log when it loads it; this command
reports what was removed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		compactLog()
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore the log from a backup",
	Long: `Restore the log file from a backup.

A backup is rotated every time the log is rewritten. By default the most
recent backup (.bak.1) is restored. Optionally specify a backup number (1-3).

Examples:
  punch restore       Restore from most recent backup
  punch restore 2     Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreFromBackup(args)
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(restoreCmd)
}

func compactLog() {
	services, ok := bootstrap()
	if !ok {
		return
	}

	result, err := services.Tracker.Compact()
	if err != nil {
		fail("Failed to compact log", err,
			fmt.Sprintf("Check that the file is writable: %s", services.Tracker.StoragePath()))
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Removed %d %s (%d remaining)\n",
		result.Removed(), cli.Pluralize("record", result.Removed()), result.After)
}

// restoreFromBackup restores without bootstrapping first, so the log is not
// rewritten and the backups are not rotated before the restore.
func restoreFromBackup(args []string) {
	services, err := deps.Services()
	if err != nil {
		fail("Failed to initialize", err, "Check your configuration with 'punch config'")
		return
	}
	tracker := services.Tracker
	tracker.SetClock(deps.Now)

	backups, err := tracker.Backups()
	if err != nil {
		fail("Failed to list backups", err, "")
		return
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, backup := range backups {
		if backup.Number == 1 {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (most recent)\n", backup.Number, backup.Path)
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s\n", backup.Number, backup.Path)
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	backupNum := 1
	if len(args) > 0 {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			fail(fmt.Sprintf("Invalid backup number '%s'", args[0]), nil, "")
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			fail(fmt.Sprintf("Backup number must be between 1 and %d (got %d)", storage.MaxBackupCount, num), nil, "")
			return
		}
		backupNum = num
	}

	exists := false
	for _, backup := range backups {
		if backup.Number == backupNum {
			exists = true
			break
		}
	}
	if !exists {
		fail(fmt.Sprintf("Backup %d does not exist", backupNum), nil, "")
		return
	}

	if err := tracker.Restore(backupNum); err != nil {
		fail("Failed to restore backup", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d (%d %s)\n",
		backupNum, len(tracker.Records()), cli.Pluralize("record", len(tracker.Records())))
}
