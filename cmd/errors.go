package cmd

import (
	"fmt"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
)

// fail prints an error block to stderr and exits with status 1.
// Details and hint are omitted when empty.
func fail(message string, err error, hint string) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", message)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

// bootstrap creates the services and loads, compacts and rewrites the log.
// On failure it reports the error and returns false; the caller must return.
func bootstrap() (*service.Services, bool) {
	services, err := deps.Services()
	if err != nil {
		fail("Failed to initialize", err, "Check your configuration with 'punch config'")
		return nil, false
	}
	services.Tracker.SetClock(deps.Now)

	closed, err := services.Tracker.Bootstrap()
	if err != nil {
		fail("Failed to load the tracking log", err,
			fmt.Sprintf("Check that the file is readable and writable: %s", services.Tracker.StoragePath()))
		return nil, false
	}

	if warnings := services.Tracker.Warnings(); len(warnings) > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: Skipped %d malformed %s in %s:\n",
			len(warnings), cli.Pluralize("row", len(warnings)), services.Tracker.StoragePath())
		for _, w := range warnings {
			_, _ = fmt.Fprintln(deps.Stderr, cli.FormatCorruptionWarning(w))
		}
		_, _ = fmt.Fprintln(deps.Stderr)
	}

	if closed != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Note: Work was idle too long, recorded a break at %s\n",
			closed.Time.Local().Format("2006-01-02 15:04"))
	}

	return services, true
}
