// Package compact reduces a record sequence to the subsequence that still
// carries every state transition, every correction and each day's final
// record.
package compact

import (
	"time"

	"github.com/xolan/punch/internal/entry"
)

// DayKeyLayout formats the calendar date used to group records
const DayKeyLayout = "2006-01-02"

// DayKey returns the UTC calendar date of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// Compact returns a new slice; the input is left untouched.
//
// Records are stable-sorted by time and grouped by UTC calendar date. Within
// a day a record is kept when it is the day's last record, when it is a
// BreakAdd, or when its type differs from the previously kept record's type.
// A kept BreakAdd becomes the comparison type for the next record.
func Compact(records []entry.Record) []entry.Record {
	sorted := make([]entry.Record, len(records))
	copy(sorted, records)
	entry.SortByTime(sorted)

	out := make([]entry.Record, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		day := DayKey(sorted[start].Time)
		for end < len(sorted) && DayKey(sorted[end].Time) == day {
			end++
		}
		out = append(out, compactDay(sorted[start:end])...)
		start = end
	}
	return out
}

func compactDay(day []entry.Record) []entry.Record {
	kept := make([]entry.Record, 0, len(day))
	last := entry.Unknown
	for i, r := range day {
		if i == len(day)-1 || r.Type == entry.BreakAdd || r.Type != last {
			kept = append(kept, r)
			last = r.Type
		}
	}
	return kept
}
