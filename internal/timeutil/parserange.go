package timeutil

import (
	"fmt"
	"time"
)

// ParseDateRangeFlags parses date range flags and returns start/end times in UTC.
// If lastDays > 0, it takes precedence over from/to and the range ends today.
// Returns an error if both lastDays and from/to are specified.
// Without any flag the range is the 7 days ending today.
func ParseDateRangeFlags(fromStr, toStr string, lastDays int, now time.Time) (start, end time.Time, err error) {
	now = now.UTC()

	if lastDays > 0 && (fromStr != "" || toStr != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("cannot use --last with --from or --to")
	}

	if lastDays == 0 && fromStr == "" && toStr == "" {
		lastDays = 7
	}

	if lastDays > 0 {
		end = EndOfDay(now)
		start = StartOfDay(now.AddDate(0, 0, -(lastDays - 1)))
		return start, end, nil
	}

	if lastDays < 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid number of days: must be positive, got %d", lastDays)
	}

	end = EndOfDay(now)
	if toStr != "" {
		toDate, err := ParseDate(toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		end = EndOfDay(toDate)
	}

	if fromStr != "" {
		start, err = ParseDate(fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
	} else {
		start = StartOfDay(end.AddDate(0, 0, -6))
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from date (%s) is after --to date (%s)",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return start, end, nil
}
