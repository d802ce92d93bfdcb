package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/punch/internal/app"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/osutil"
)

// Helper to create a temporary log file
func createTempFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "log.csv")
	if content != "" {
		if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create temp file: %v", err)
		}
	}
	return tmpFile
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 1, hour, minute, 0, 0, time.UTC)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does_not_exist.csv")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Load() returned %d records, expected 0", l.Len())
	}
	if len(l.Warnings()) != 0 {
		t.Errorf("Load() returned %d warnings, expected 0", len(l.Warnings()))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load() should not create the file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := createTempFile(t, "Time,LogType,AddSeconds\n"+
		"2024-03-01T09:00:00Z,Work,\n"+
		"2024-03-01T09:30:00Z,BreakAdd,600\n"+
		"2024-03-01T10:00:00Z,Break,\n")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	expected := []entry.Record{
		entry.NewWork(at(9, 0)),
		entry.NewBreakAdd(at(9, 30), 600),
		entry.NewBreak(at(10, 0)),
	}
	records := l.Records()
	if len(records) != len(expected) {
		t.Fatalf("Load() returned %d records, expected %d", len(records), len(expected))
	}
	for i := range expected {
		if !records[i].Equal(expected[i]) {
			t.Errorf("records[%d] = %+v, expected %+v", i, records[i], expected[i])
		}
	}
}

func TestLoad_KeepsFileOrder(t *testing.T) {
	path := createTempFile(t, "Time,LogType,AddSeconds\n"+
		"2024-03-01T10:00:00Z,Break,\n"+
		"2024-03-01T09:00:00Z,Work,\n")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	records := l.Records()
	if records[0].Type != entry.Break || records[1].Type != entry.Work {
		t.Errorf("Load() reordered records: %+v", records)
	}
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	path := createTempFile(t, "Time,LogType,AddSeconds\n"+
		"2024-03-01T09:00:00Z,Work,\n"+
		"not a row\n"+
		"2024-03-01T09:15:00Z,Nap,\n"+
		"\n"+
		"2024-99-01T09:20:00Z,Break,\n"+
		"2024-03-01T09:30:00Z,BreakAdd,lots\n"+
		"\"unterminated,Work,\n"+
		"Time,LogType,AddSeconds\n"+
		"2024-03-01T10:00:00Z,Break,\n")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if l.Len() != 2 {
		t.Errorf("Load() returned %d records, expected 2", l.Len())
	}

	warnings := l.Warnings()
	expectedLines := []int{3, 4, 6, 7, 8}
	if len(warnings) != len(expectedLines) {
		t.Fatalf("Load() returned %d warnings, expected %d: %+v", len(warnings), len(expectedLines), warnings)
	}
	for i, line := range expectedLines {
		if warnings[i].LineNumber != line {
			t.Errorf("warnings[%d].LineNumber = %d, expected %d", i, warnings[i].LineNumber, line)
		}
		if warnings[i].Error == "" {
			t.Errorf("warnings[%d].Error is empty", i)
		}
	}
	if warnings[0].Content != "not a row" {
		t.Errorf("warnings[0].Content = %q, expected %q", warnings[0].Content, "not a row")
	}
}

func TestLoad_OverlongRowIsSkipped(t *testing.T) {
	long := strings.Repeat("x", 70000)
	path := createTempFile(t, "Time,LogType,AddSeconds\n"+
		"2024-03-01T09:00:00Z,Work,\n"+
		long+"\n"+
		"2024-03-01T10:00:00Z,Break,\r\n"+
		"2024-03-01T11:00:00Z,Work,")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if l.Len() != 3 {
		t.Errorf("Load() returned %d records, expected 3", l.Len())
	}
	warnings := l.Warnings()
	if len(warnings) != 1 || warnings[0].LineNumber != 3 {
		t.Fatalf("Warnings() = %d entries, expected one on line 3", len(warnings))
	}
	if len(warnings[0].Content) > maxWarningContent+3 {
		t.Errorf("warning content has %d bytes, expected it truncated", len(warnings[0].Content))
	}

	health, err := ValidateStorage(path)
	if err != nil {
		t.Fatalf("ValidateStorage() returned unexpected error: %v", err)
	}
	if health.TotalLines != 5 || health.CorruptedRows != 1 {
		t.Errorf("ValidateStorage() = %+v, expected 5 lines and 1 corrupted row", health)
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	path := createTempFile(t, "Time,LogType,AddSeconds\n")
	if err := os.Chmod(path, 0000); err != nil {
		t.Skipf("Cannot change file permissions: %v", err)
	}
	defer func() { _ = os.Chmod(path, 0644) }()

	if f, err := os.Open(path); err == nil {
		_ = f.Close()
		t.Skip("File still readable (running as root?)")
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should return error for unreadable file")
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("Load() error = %v, expected ErrIO", err)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	records := []entry.Record{
		entry.NewWork(at(9, 0)),
		entry.NewBreakAdd(at(9, 30), 600),
		entry.NewBreakAdd(at(9, 31), -60),
		entry.NewBreak(at(10, 0).Add(250 * time.Millisecond)),
		{Time: at(11, 0), Type: entry.Unknown},
	}

	l := NewLog(path)
	l.records = append(l.records, records...)
	if err := l.Save(); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	got := reloaded.Records()
	if len(got) != len(records) {
		t.Fatalf("round trip returned %d records, expected %d", len(got), len(records))
	}
	for i := range records {
		if !got[i].Equal(records[i]) {
			t.Errorf("records[%d] = %+v, expected %+v", i, got[i], records[i])
		}
	}
	if len(reloaded.Warnings()) != 0 {
		t.Errorf("round trip produced warnings: %+v", reloaded.Warnings())
	}
}

func TestSave_WritesHeaderAndOverwrites(t *testing.T) {
	path := createTempFile(t, "garbage\nmore garbage\n")

	l := NewLog(path)
	l.records = []entry.Record{entry.NewWork(at(9, 0))}
	if err := l.Save(); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	expected := "Time,LogType,AddSeconds\n2024-03-01T09:00:00Z,Work,\n"
	if got := readFile(t, path); got != expected {
		t.Errorf("file content = %q, expected %q", got, expected)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Save() left the temp file behind")
	}

	backup := readFile(t, GetBackupPathForStorage(path, 1))
	if backup != "garbage\nmore garbage\n" {
		t.Errorf("backup content = %q, expected previous content", backup)
	}
}

func TestSave_EmptyLogWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")

	if err := NewLog(path).Save(); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	if got := readFile(t, path); got != "Time,LogType,AddSeconds\n" {
		t.Errorf("file content = %q, expected header only", got)
	}
}

func TestSave_ErrorLeavesMemoryIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "log.csv")

	l := NewLog(path)
	l.records = []entry.Record{entry.NewWork(at(9, 0))}
	err := l.Save()
	if err == nil {
		t.Fatal("Save() should fail when the directory does not exist")
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Save() error = %T, expected *IOError", err)
	}
	if !errors.Is(err, ErrIO) {
		t.Error("errors.Is(err, ErrIO) = false, expected true")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after failed Save, expected 1", l.Len())
	}
}

func TestAppend_NewFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if err := l.Append(entry.NewWork(at(9, 0))); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}
	if err := l.Append(entry.NewBreak(at(10, 0))); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	expected := "Time,LogType,AddSeconds\n" +
		"2024-03-01T09:00:00Z,Work,\n" +
		"2024-03-01T10:00:00Z,Break,\n"
	if got := readFile(t, path); got != expected {
		t.Errorf("file content = %q, expected %q", got, expected)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", l.Len())
	}
}

func TestAppend_ExistingRecordsNoHeader(t *testing.T) {
	content := "Time,LogType,AddSeconds\n2024-03-01T09:00:00Z,Work,\n"
	path := createTempFile(t, content)

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := l.Append(entry.NewBreakAdd(at(9, 30), 300)); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	expected := content + "2024-03-01T09:30:00Z,BreakAdd,300\n"
	if got := readFile(t, path); got != expected {
		t.Errorf("file content = %q, expected %q", got, expected)
	}
}

func TestAppend_HeaderDependsOnMemoryNotFile(t *testing.T) {
	// Only malformed rows on disk: the in-memory log is empty, so the
	// first append writes a second header.
	content := "Time,LogType,AddSeconds\nbroken row\n"
	path := createTempFile(t, content)

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := l.Append(entry.NewWork(at(9, 0))); err != nil {
		t.Fatalf("Append() returned unexpected error: %v", err)
	}

	got := readFile(t, path)
	if strings.Count(got, "Time,LogType,AddSeconds") != 2 {
		t.Errorf("expected duplicate header, got %q", got)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("reloaded Len() = %d, expected 1", reloaded.Len())
	}
	if len(reloaded.Warnings()) != 1 {
		t.Errorf("reloaded warnings = %d, expected 1 (header rows are not warnings)", len(reloaded.Warnings()))
	}
}

func TestAppend_ErrorKeepsRecordInMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "log.csv")
	l := NewLog(path)

	err := l.Append(entry.NewWork(at(9, 0)))
	if err == nil {
		t.Fatal("Append() should fail when the directory does not exist")
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("Append() error = %v, expected ErrIO", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after failed Append, expected 1", l.Len())
	}
}

func TestClean_CompactsInMemoryOnly(t *testing.T) {
	content := "Time,LogType,AddSeconds\n" +
		"2024-03-01T09:00:00Z,Work,\n" +
		"2024-03-01T09:05:00Z,Work,\n" +
		"2024-03-01T10:00:00Z,Break,\n"
	path := createTempFile(t, content)

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !l.Clean() {
		t.Error("Clean() = false, expected true for a redundant Work")
	}

	if l.Len() != 2 {
		t.Errorf("Len() after Clean = %d, expected 2", l.Len())
	}
	if l.Clean() {
		t.Error("second Clean() = true, expected false")
	}
	if got := readFile(t, path); got != content {
		t.Error("Clean() should not write the file")
	}

	if err := l.Save(); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}
	reloaded, _ := Load(path)
	if reloaded.Len() != 2 {
		t.Errorf("reloaded Len() = %d, expected 2", reloaded.Len())
	}
}

func TestLast(t *testing.T) {
	l := NewLog("unused")
	l.records = []entry.Record{
		entry.NewWork(at(9, 0)),
		entry.NewBreak(at(10, 0)),
	}

	tests := []struct {
		name     string
		filter   []entry.LogType
		expected *entry.Record
	}{
		{"no filter", nil, &l.records[1]},
		{"work", []entry.LogType{entry.Work}, &l.records[0]},
		{"work or break", []entry.LogType{entry.Work, entry.Break}, &l.records[1]},
		{"no match", []entry.LogType{entry.BreakAdd}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Last(tt.filter...)
			if tt.expected == nil {
				if ok {
					t.Errorf("Last() = %+v, expected none", got)
				}
				return
			}
			if !ok {
				t.Fatal("Last() returned none")
			}
			if !got.Equal(*tt.expected) {
				t.Errorf("Last() = %+v, expected %+v", got, *tt.expected)
			}
		})
	}
}

func TestLast_UsesTimeNotPosition(t *testing.T) {
	l := NewLog("unused")
	l.records = []entry.Record{
		entry.NewBreak(at(10, 0)),
		entry.NewWork(at(9, 0)),
	}

	got, ok := l.Last()
	if !ok || got.Type != entry.Break {
		t.Errorf("Last() = %+v, expected the 10:00 Break", got)
	}
}

func TestLast_TieResolvesToFirst(t *testing.T) {
	l := NewLog("unused")
	l.records = []entry.Record{
		entry.NewWork(at(9, 0)),
		entry.NewBreak(at(9, 0)),
	}

	got, ok := l.Last()
	if !ok || got.Type != entry.Work {
		t.Errorf("Last() = %+v, expected the first maximal record", got)
	}
}

func TestLast_Empty(t *testing.T) {
	if _, ok := NewLog("unused").Last(); ok {
		t.Error("Last() on an empty log should return none")
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	l := NewLog("unused")
	l.records = []entry.Record{entry.NewWork(at(9, 0))}

	records := l.Records()
	records[0] = entry.NewBreak(at(10, 0))

	if l.records[0].Type != entry.Work {
		t.Error("modifying Records() result changed the log")
	}
}

func TestValidateStorage(t *testing.T) {
	path := createTempFile(t, "Time,LogType,AddSeconds\n"+
		"2024-03-01T09:00:00Z,Work,\n"+
		"corrupt\n"+
		"Time,LogType,AddSeconds\n"+
		"2024-03-01T10:00:00Z,Break,\n")

	health, err := ValidateStorage(path)
	if err != nil {
		t.Fatalf("ValidateStorage() returned unexpected error: %v", err)
	}

	if health.TotalLines != 5 {
		t.Errorf("TotalLines = %d, expected 5", health.TotalLines)
	}
	if health.HeaderLines != 2 {
		t.Errorf("HeaderLines = %d, expected 2", health.HeaderLines)
	}
	if health.ValidRecords != 2 {
		t.Errorf("ValidRecords = %d, expected 2", health.ValidRecords)
	}
	if health.CorruptedRows != 1 {
		t.Errorf("CorruptedRows = %d, expected 1", health.CorruptedRows)
	}
	if len(health.Warnings) != 1 || health.Warnings[0].LineNumber != 3 {
		t.Errorf("Warnings = %+v, expected one warning on line 3", health.Warnings)
	}
}

func TestValidateStorage_MissingFile(t *testing.T) {
	health, err := ValidateStorage(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("ValidateStorage() returned unexpected error: %v", err)
	}
	if health.TotalLines != 0 || health.ValidRecords != 0 {
		t.Errorf("ValidateStorage() = %+v, expected empty health", health)
	}
}

// mockPathProvider is a test helper for mocking osutil.PathProvider
type mockPathProvider struct {
	userConfigDirFn func() (string, error)
	mkdirAllFn      func(path string, perm os.FileMode) error
	getwdFn         func() (string, error)
	env             map[string]string
}

func (m *mockPathProvider) UserConfigDir() (string, error) {
	if m.userConfigDirFn != nil {
		return m.userConfigDirFn()
	}
	return "", nil
}

func (m *mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirAllFn != nil {
		return m.mkdirAllFn(path, perm)
	}
	return os.MkdirAll(path, perm)
}

func (m *mockPathProvider) Getwd() (string, error) {
	if m.getwdFn != nil {
		return m.getwdFn()
	}
	return "", nil
}

func (m *mockPathProvider) LookupEnv(key string) (string, bool) {
	v, ok := m.env[key]
	return v, ok
}

func TestGetStoragePath_Default(t *testing.T) {
	defer osutil.ResetProvider()
	configDir := t.TempDir()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return configDir, nil },
	})

	path, err := GetStoragePath("", "")
	if err != nil {
		t.Fatalf("GetStoragePath() returned unexpected error: %v", err)
	}

	expected := filepath.Join(configDir, app.Name, DefaultLogFile)
	if path != expected {
		t.Errorf("GetStoragePath() = %q, expected %q", path, expected)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Error("GetStoragePath() did not create the data directory")
	}
}

func TestGetStoragePath_DevMode(t *testing.T) {
	defer osutil.ResetProvider()
	wd := t.TempDir()
	osutil.SetProvider(&mockPathProvider{
		getwdFn: func() (string, error) { return wd, nil },
		env:     map[string]string{DevModeEnv: "1"},
	})

	path, err := GetStoragePath("", "week.csv")
	if err != nil {
		t.Fatalf("GetStoragePath() returned unexpected error: %v", err)
	}

	expected := filepath.Join(wd, DevDirName, "week.csv")
	if path != expected {
		t.Errorf("GetStoragePath() = %q, expected %q", path, expected)
	}
}

func TestGetStoragePath_ConfiguredDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")

	path, err := GetStoragePath(dir, "")
	if err != nil {
		t.Fatalf("GetStoragePath() returned unexpected error: %v", err)
	}
	if path != filepath.Join(dir, DefaultLogFile) {
		t.Errorf("GetStoragePath() = %q, expected file in %q", path, dir)
	}
}

func TestGetStoragePath_Errors(t *testing.T) {
	defer osutil.ResetProvider()

	tests := []struct {
		name     string
		provider *mockPathProvider
	}{
		{
			name: "user config dir error",
			provider: &mockPathProvider{
				userConfigDirFn: func() (string, error) { return "", os.ErrPermission },
			},
		},
		{
			name: "mkdir error",
			provider: &mockPathProvider{
				userConfigDirFn: func() (string, error) { return "/tmp", nil },
				mkdirAllFn:      func(string, os.FileMode) error { return os.ErrPermission },
			},
		},
		{
			name: "getwd error in dev mode",
			provider: &mockPathProvider{
				getwdFn: func() (string, error) { return "", os.ErrNotExist },
				env:     map[string]string{DevModeEnv: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osutil.SetProvider(tt.provider)
			if _, err := GetStoragePath("", ""); err == nil {
				t.Error("GetStoragePath() should return error")
			}
		})
	}
}
