// Package storage persists log records to a row-oriented CSV file.
package storage

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xolan/punch/internal/app"
	"github.com/xolan/punch/internal/compact"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/osutil"
)

const (
	// DefaultLogFile is the name of the CSV log inside the data directory
	DefaultLogFile = "log.csv"
	// DevDirName is the data directory used below the working directory in dev mode
	DevDirName = "punch-tmp"
	// DevModeEnv switches path resolution to DevDirName when set
	DevModeEnv = "PUNCH_DEV"

	// maxWarningContent caps how much of a skipped line a warning keeps
	maxWarningContent = 200
)

// ParseWarning represents a row that was skipped while loading
type ParseWarning struct {
	LineNumber int    // Line number in the file (1-indexed)
	Content    string // Raw content of the skipped line
	Error      string // Description of the parsing error
}

// Log is the ordered record sequence of one tracking file. It is the only
// owner of its records; callers get copies.
type Log struct {
	path     string
	records  []entry.Record
	warnings []ParseWarning
}

// ResolveDataDir returns the directory log files live in and creates it.
// A configured directory wins; otherwise dev mode (PUNCH_DEV set) uses
// ./punch-tmp and the default is <user config dir>/punch.
func ResolveDataDir(configured string) (string, error) {
	dir := configured
	if dir == "" {
		if _, dev := osutil.Provider.LookupEnv(DevModeEnv); dev {
			wd, err := osutil.Provider.Getwd()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(wd, DevDirName)
		} else {
			configDir, err := osutil.Provider.UserConfigDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(configDir, app.Name)
		}
	}

	if err := osutil.Provider.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetStoragePath returns the path of the log file inside the data directory.
// An empty fileName selects DefaultLogFile.
func GetStoragePath(dataDir, fileName string) (string, error) {
	dir, err := ResolveDataDir(dataDir)
	if err != nil {
		return "", err
	}
	if fileName == "" {
		fileName = DefaultLogFile
	}
	return filepath.Join(dir, fileName), nil
}

// NewLog returns an empty log backed by path without touching the file
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Load reads every row of the file at path in file order.
// A missing file yields an empty log. Rows that do not parse are skipped and
// reported through Warnings; header rows and blank lines are skipped silently.
func Load(path string) (*Log, error) {
	l := NewLog(path)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, ioErr("open", path, err)
	}
	defer func() { _ = file.Close() }()

	lineNumber := 0
	err = readLines(file, func(line string) {
		lineNumber++
		if strings.TrimSpace(line) == "" {
			return
		}

		rec, err := parseLine(line)
		if err != nil {
			l.warnings = append(l.warnings, ParseWarning{
				LineNumber: lineNumber,
				Content:    truncate(line, maxWarningContent),
				Error:      err.Error(),
			})
			return
		}
		if rec != nil {
			l.records = append(l.records, *rec)
		}
	})
	if err != nil {
		return nil, ioErr("read", path, err)
	}

	return l, nil
}

// readLines calls fn for every line of r with the line ending stripped.
// Lines have no length limit.
func readLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// parseLine returns nil, nil for a header row
func parseLine(line string) (*entry.Record, error) {
	fields, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, err
	}
	if entry.IsHeader(fields) {
		return nil, nil
	}
	rec, err := entry.ParseRow(fields)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Path returns the backing file path
func (l *Log) Path() string {
	return l.path
}

// Len returns the number of records in memory
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns a copy of the in-memory sequence
func (l *Log) Records() []entry.Record {
	out := make([]entry.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Warnings returns the rows skipped by Load
func (l *Log) Warnings() []ParseWarning {
	return l.warnings
}

// Clean replaces the in-memory sequence with its compacted form and reports
// whether that changed it. Nothing is written; call Save to persist.
func (l *Log) Clean() bool {
	cleaned := compact.Compact(l.records)
	changed := len(cleaned) != len(l.records)
	for i := 0; !changed && i < len(cleaned); i++ {
		changed = !cleaned[i].Equal(l.records[i])
	}
	l.records = cleaned
	return changed
}

// Save rewrites the whole file: a header followed by every record in its
// current order. The previous file is rotated into the backups first and the
// new content is written to a temp file and renamed into place.
func (l *Log) Save() error {
	if err := CreateBackup(l.path); err != nil {
		return ioErr("backup", l.path, err)
	}

	tmpFile := l.path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return ioErr("create", tmpFile, err)
	}

	w := csv.NewWriter(file)
	_ = w.Write(entry.Header)
	for _, r := range l.records {
		_ = w.Write(r.Row())
	}
	w.Flush()

	if err := w.Error(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return ioErr("write", tmpFile, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return ioErr("close", tmpFile, err)
	}

	if err := os.Rename(tmpFile, l.path); err != nil {
		_ = os.Remove(tmpFile)
		return ioErr("rename", l.path, err)
	}
	return nil
}

// Append adds rec to the in-memory sequence and writes just that row to the
// end of the file, creating it if needed.
//
// A header row is written first when the in-memory sequence was empty before
// this call. This depends on memory, not on the file: a file holding only
// rows that failed to parse gets a second header.
//
// On error the record stays in memory even though it was not persisted.
func (l *Log) Append(rec entry.Record) error {
	writeHeader := len(l.records) == 0
	l.records = append(l.records, rec)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ioErr("open", l.path, err)
	}

	w := csv.NewWriter(file)
	if writeHeader {
		_ = w.Write(entry.Header)
	}
	_ = w.Write(rec.Row())
	w.Flush()

	if err := w.Error(); err != nil {
		_ = file.Close()
		return ioErr("write", l.path, err)
	}
	return ioErr("close", l.path, file.Close())
}

// Last returns the record with the latest time among records whose type is
// in types, or among all records when types is empty. Of several records
// sharing the latest time, the first in sequence order wins.
func (l *Log) Last(types ...entry.LogType) (entry.Record, bool) {
	var best entry.Record
	found := false
	for _, r := range l.records {
		if len(types) > 0 && !containsType(types, r.Type) {
			continue
		}
		if !found || r.Time.After(best.Time) {
			best = r
			found = true
		}
	}
	return best, found
}

func containsType(types []entry.LogType, t entry.LogType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// StorageHealth contains information about the health status of the log file.
type StorageHealth struct {
	TotalLines    int            // Total number of lines in the file
	HeaderLines   int            // Header rows, including duplicates from appends
	ValidRecords  int            // Successfully parsed records
	CorruptedRows int            // Rows skipped on load
	Warnings      []ParseWarning // Detailed information about each skipped row
}

// ValidateStorage analyzes the log file and returns health status information.
// Returns empty health status if the file doesn't exist.
func ValidateStorage(path string) (StorageHealth, error) {
	health := StorageHealth{Warnings: []ParseWarning{}}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return health, nil
		}
		return health, ioErr("open", path, err)
	}
	defer func() { _ = file.Close() }()

	err = readLines(file, func(line string) {
		health.TotalLines++
		if strings.TrimSpace(line) == "" {
			return
		}
		if rec, err := parseLine(line); err == nil && rec == nil {
			health.HeaderLines++
		}
	})
	if err != nil {
		return health, ioErr("read", path, err)
	}

	l, err := Load(path)
	if err != nil {
		return health, err
	}

	health.ValidRecords = l.Len()
	health.CorruptedRows = len(l.warnings)
	health.Warnings = append(health.Warnings, l.warnings...)
	return health, nil
}
