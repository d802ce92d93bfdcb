package storage

import (
	"bytes"
	"fmt"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// GetBackupPathForStorage returns the path to a backup file with the given rotation number.
// Backup files are named log.csv.bak.N; lower numbers are more recent.
func GetBackupPathForStorage(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts existing backup files to make room for a new backup.
// It renames .bak.1 -> .bak.2, .bak.2 -> .bak.3, and deletes the oldest .bak.3
// if it exists. Missing files are not an error.
func rotateBackups(storagePath string) error {
	oldestPath := GetBackupPathForStorage(storagePath, MaxBackupCount)
	if err := os.Remove(oldestPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		currentPath := GetBackupPathForStorage(storagePath, i)
		nextPath := GetBackupPathForStorage(storagePath, i+1)
		if err := os.Rename(currentPath, nextPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// CreateBackup copies the log file to .bak.1 after rotating older backups.
// If the log file doesn't exist, or .bak.1 already holds the same bytes, no
// backup is created and no error is returned.
func CreateBackup(storagePath string) error {
	data, err := os.ReadFile(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if latest, err := os.ReadFile(GetBackupPathForStorage(storagePath, 1)); err == nil && bytes.Equal(latest, data) {
		return nil
	}

	if err := rotateBackups(storagePath); err != nil {
		return err
	}

	return os.WriteFile(GetBackupPathForStorage(storagePath, 1), data, 0644)
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Number int    // The backup number (1, 2, or 3)
	Path   string // The full path to the backup file
}

// ListBackups returns available backup files sorted by recency.
// .bak.1 is the most recent backup, .bak.3 is the oldest.
func ListBackups(storagePath string) ([]BackupInfo, error) {
	var backups []BackupInfo

	for i := 1; i <= MaxBackupCount; i++ {
		backupPath := GetBackupPathForStorage(storagePath, i)
		if _, err := os.Stat(backupPath); err == nil {
			backups = append(backups, BackupInfo{Number: i, Path: backupPath})
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return backups, nil
}

// RestoreBackup replaces the log file with backup number backupNum
// (1 is most recent). The current file is backed up first, so the restored
// content is read before the rotation shifts it.
func RestoreBackup(storagePath string, backupNum int) error {
	if backupNum < 1 || backupNum > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", backupNum, MaxBackupCount)
	}

	data, err := os.ReadFile(GetBackupPathForStorage(storagePath, backupNum))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d does not exist", backupNum)
		}
		return err
	}

	if err := CreateBackup(storagePath); err != nil {
		return err
	}

	return os.WriteFile(storagePath, data, 0644)
}
