package entry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Header is the first row of every log file
var Header = []string{"Time", "LogType", "AddSeconds"}

// TimeLayout is the row encoding of Record.Time
const TimeLayout = time.RFC3339Nano

// Row encodes the record as Time, LogType, AddSeconds.
// AddSeconds is empty when absent.
func (r Record) Row() []string {
	add := ""
	if r.AddSeconds != nil {
		add = strconv.FormatInt(*r.AddSeconds, 10)
	}
	return []string{r.Time.UTC().Format(TimeLayout), r.Type.String(), add}
}

// ParseRow decodes a row produced by Row. Rows with the wrong number of
// fields, an unparseable timestamp, an unknown type or a non-integer
// AddSeconds are rejected.
func ParseRow(fields []string) (Record, error) {
	if len(fields) != len(Header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}

	ts, err := time.Parse(TimeLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return Record{}, fmt.Errorf("invalid time %q: %w", fields[0], err)
	}

	logType, err := ParseLogType(strings.TrimSpace(fields[1]))
	if err != nil {
		return Record{}, err
	}

	rec := Record{Time: ts.UTC(), Type: logType}

	if raw := strings.TrimSpace(fields[2]); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("invalid add seconds %q: %w", raw, err)
		}
		rec.AddSeconds = &seconds
	}

	return rec, nil
}

// IsHeader reports whether the row is a header row
func IsHeader(fields []string) bool {
	if len(fields) != len(Header) {
		return false
	}
	for i, h := range Header {
		if strings.TrimSpace(fields[i]) != h {
			return false
		}
	}
	return true
}

// combinedTimePattern matches combined time duration in XhYm format (e.g., "1h30m", "2h15m")
var combinedTimePattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)

// timePattern matches time duration in Yh (hours) or Ym (minutes) format
var timePattern = regexp.MustCompile(`^(\d+)(h|m)$`)

// MaxDurationMinutes is the maximum allowed break correction (24 hours)
const MaxDurationMinutes = 24 * 60

// ParseDuration parses a time duration string in Yh, Ym, or XhYm format
// and returns the duration in minutes.
// Valid inputs: "2h" (returns 120), "30m" (returns 30), "1h30m" (returns 90)
// Invalid inputs: "invalid", "0h", "0m", "0h0m", values exceeding 24h
func ParseDuration(input string) (minutes int, err error) {
	input = strings.ToLower(strings.TrimSpace(input))

	if m := combinedTimePattern.FindStringSubmatch(input); m != nil {
		hours, errH := strconv.Atoi(m[1])
		mins, errM := strconv.Atoi(m[2])
		if errH != nil || errM != nil {
			return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
		}
		return checkDuration(hours*60 + mins)
	}

	m := timePattern.FindStringSubmatch(input)
	if m == nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}

	if m[2] == "h" {
		return checkDuration(value * 60)
	}
	return checkDuration(value)
}

func checkDuration(minutes int) (int, error) {
	if minutes == 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	if minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours (%d minutes)", MaxDurationMinutes)
	}
	return minutes, nil
}
