// Package entry defines the log record model: one timestamped state change
// (or correction) in a work/break log.
package entry

import (
	"fmt"
	"sort"
	"time"
)

// LogType tags what a record means
type LogType int

const (
	// Unknown is the zero value and marks "no prior state"
	Unknown LogType = iota
	// Work starts an active work interval
	Work
	// Break closes the current work interval
	Break
	// BreakAdd removes AddSeconds from the computed work total
	BreakAdd
)

var logTypeNames = map[LogType]string{
	Unknown:  "Unknown",
	Work:     "Work",
	Break:    "Break",
	BreakAdd: "BreakAdd",
}

// String returns the row token for the type
func (t LogType) String() string {
	if name, ok := logTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LogType(%d)", int(t))
}

// ParseLogType parses one of the literal tokens Work, Break, BreakAdd, Unknown.
func ParseLogType(s string) (LogType, error) {
	for t, name := range logTypeNames {
		if name == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown log type %q (expected Work, Break, BreakAdd or Unknown)", s)
}

// Record is a single log event. Time is always held in UTC.
type Record struct {
	Time       time.Time
	Type       LogType
	AddSeconds *int64
}

// NewWork returns a Work record at t
func NewWork(t time.Time) Record {
	return Record{Time: t.UTC(), Type: Work}
}

// NewBreak returns a Break record at t
func NewBreak(t time.Time) Record {
	return Record{Time: t.UTC(), Type: Break}
}

// NewBreakAdd returns a BreakAdd correction removing seconds from the work total
func NewBreakAdd(t time.Time, seconds int64) Record {
	return Record{Time: t.UTC(), Type: BreakAdd, AddSeconds: &seconds}
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(o Record) bool {
	if !r.Time.Equal(o.Time) || r.Type != o.Type {
		return false
	}
	if (r.AddSeconds == nil) != (o.AddSeconds == nil) {
		return false
	}
	return r.AddSeconds == nil || *r.AddSeconds == *o.AddSeconds
}

// Correction returns the seconds a BreakAdd record removes, or 0.
func (r Record) Correction() int64 {
	if r.Type != BreakAdd || r.AddSeconds == nil {
		return 0
	}
	return *r.AddSeconds
}

// SortByTime sorts records ascending by timestamp, keeping the relative
// order of records with equal timestamps.
func SortByTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
}
