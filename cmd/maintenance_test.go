package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/xolan/punch/internal/storage"
)

const redundantLog = `Time,LogType,AddSeconds
2024-03-05T08:00:00Z,Work,
2024-03-05T08:30:00Z,Work,
2024-03-05T12:00:00Z,Break,
2024-03-05T13:00:00Z,Work,
2024-03-05T17:00:00Z,Break,
2024-03-06T09:00:00Z,Work,
`

func TestCompactLog(t *testing.T) {
	env := newTestEnv(t, redundantLog)

	compactLog()

	if env.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", env.exitCode, env.stderr.String())
	}
	// Loading already compacts, so the command finds nothing left to remove
	assertContains(t, env.stdout.String(), "Removed 0 records (5 remaining)")
	if strings.Contains(env.readLog(t), "08:30") {
		t.Error("expected redundant Work to be removed from the file")
	}
}

func TestRestoreFromBackup(t *testing.T) {
	env := newTestEnv(t, redundantLog)

	showStatus()
	if strings.Contains(env.readLog(t), "08:30") {
		t.Fatal("expected bootstrap to compact the log")
	}

	env.reset()
	restoreFromBackup(nil)

	if env.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr: %s", env.exitCode, env.stderr.String())
	}
	assertContains(t, env.stdout.String(),
		"Available backups:",
		"1: "+storage.GetBackupPathForStorage(env.storagePath, 1)+" (most recent)",
		"Successfully restored from backup 1 (6 records)",
	)
	if env.readLog(t) != redundantLog {
		t.Errorf("restored log = %q, want original", env.readLog(t))
	}
}

func TestRestoreFromBackup_NoBackups(t *testing.T) {
	env := newTestEnv(t, "")

	restoreFromBackup(nil)

	if env.exitCode != 1 {
		t.Errorf("exit code = %d, want 1", env.exitCode)
	}
	assertContains(t, env.stdout.String(), "No backups available")
}

func TestRestoreFromBackup_InvalidArgs(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"x", "Invalid backup number 'x'"},
		{"5", "Backup number must be between 1 and 3 (got 5)"},
		{"0", "Backup number must be between 1 and 3 (got 0)"},
		{"3", "Backup 3 does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			env := newTestEnv(t, sampleLog)
			showStatus()
			env.reset()

			restoreFromBackup([]string{tt.arg})

			if env.exitCode != 1 {
				t.Errorf("exit code = %d, want 1", env.exitCode)
			}
			assertContains(t, env.stderr.String(), tt.want)
		})
	}
}

func TestRestoreFromBackup_DoesNotRotateFirst(t *testing.T) {
	env := newTestEnv(t, redundantLog)
	showStatus()

	before, err := os.ReadFile(storage.GetBackupPathForStorage(env.storagePath, 1))
	if err != nil {
		t.Fatal(err)
	}

	env.reset()
	restoreFromBackup([]string{"1"})

	if env.readLog(t) != string(before) {
		t.Error("expected the backup taken before the command to be restored")
	}
}
