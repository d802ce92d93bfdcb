// Package cli provides the presentation helpers shared by the punch
// command line, TUI and HTTP frontends.
package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/storage"
)

var secondsPerHour = decimal.NewFromInt(3600)

// FormatClock formats seconds as HH:MM. Negative totals display as 00:00;
// hours are not capped at 24.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration formats seconds as a human-readable string.
// Examples: "0m", "30m", "2h", "1h 30m", "-15m"
func FormatDuration(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%s%dm", sign, minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%s%dh", sign, hours)
	}
	return fmt.Sprintf("%s%dh %dm", sign, hours, mins)
}

// DecimalHours returns seconds as hours rounded to two decimal places,
// e.g. 5400 -> "1.50". Negative totals keep their sign.
func DecimalHours(seconds int64) string {
	return decimal.NewFromInt(seconds).Div(secondsPerHour).StringFixed(2)
}

// FormatState describes a tracker state for display
func FormatState(state entry.LogType) string {
	switch state {
	case entry.Work:
		return "working"
	case entry.Break:
		return "on break"
	default:
		return "not started"
	}
}

// FormatRecord formats a record as one line: time, type and, for BreakAdd,
// the added break.
func FormatRecord(r entry.Record) string {
	line := fmt.Sprintf("%s  %-8s", r.Time.UTC().Format("2006-01-02 15:04:05"), r.Type)
	if r.Type == entry.BreakAdd {
		line += "  " + FormatDuration(r.Correction())
	}
	return line
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end time.Time) string {
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// FormatCorruptionWarning formats a ParseWarning into a human-readable string
func FormatCorruptionWarning(warning storage.ParseWarning) string {
	content := warning.Content
	if len(content) > 50 {
		content = content[:47] + "..."
	}
	return fmt.Sprintf("  Line %d: %s (error: %s)", warning.LineNumber, content, warning.Error)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
