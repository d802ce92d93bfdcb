package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timeutil"
)

// Filter selects records by type and time range.
// All fields are optional; empty values match all records.
type Filter struct {
	Types []entry.LogType // Any of these types (OR logic)
	From  time.Time       // Inclusive lower bound, zero for none
	To    time.Time       // Inclusive upper bound, zero for none
}

// NewFilter creates a Filter over [from, to] for the given types
func NewFilter(from, to time.Time, types ...entry.LogType) *Filter {
	return &Filter{Types: types, From: from, To: to}
}

// IsEmpty returns true if the filter matches every record
func (f *Filter) IsEmpty() bool {
	return len(f.Types) == 0 && f.From.IsZero() && f.To.IsZero()
}

// MatchesType returns true if the record is of one of the filter types.
// No types matches all records.
func (f *Filter) MatchesType(r entry.Record) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if r.Type == t {
			return true
		}
	}
	return false
}

// MatchesTime returns true if the record time lies inside the bounds that are set
func (f *Filter) MatchesTime(r entry.Record) bool {
	switch {
	case f.From.IsZero() && f.To.IsZero():
		return true
	case f.From.IsZero():
		return !r.Time.After(f.To)
	case f.To.IsZero():
		return !r.Time.Before(f.From)
	}
	return timeutil.IsInRange(r.Time, f.From, f.To)
}

// Matches returns true if the record passes every criterion
func (f *Filter) Matches(r entry.Record) bool {
	return f.MatchesType(r) && f.MatchesTime(r)
}

// Apply returns the matching records in their original order.
// An empty filter returns records unchanged.
func Apply(records []entry.Record, f *Filter) []entry.Record {
	if f == nil || f.IsEmpty() {
		return records
	}

	filtered := make([]entry.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ParseTypes maps user-facing type names to log types, case-insensitively.
// Accepted: work, break, breakadd (or break-add).
func ParseTypes(names []string) ([]entry.LogType, error) {
	types := make([]entry.LogType, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "work":
			types = append(types, entry.Work)
		case "break":
			types = append(types, entry.Break)
		case "breakadd", "break-add":
			types = append(types, entry.BreakAdd)
		default:
			return nil, fmt.Errorf("unknown record type %q", name)
		}
	}
	return types, nil
}
