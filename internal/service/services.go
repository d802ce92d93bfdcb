package service

import (
	"path/filepath"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/history"
	"github.com/xolan/punch/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Tracker *TrackerService
	Config  *ConfigService
}

// NewServices creates a new Services instance with default paths
func NewServices() (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	storagePath, err := storage.GetStoragePath(cfg.DataDir, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	return NewServicesWithPaths(storagePath, configPath, cfg), nil
}

// NewServicesWithPaths creates a new Services instance with custom paths (useful for testing)
func NewServicesWithPaths(storagePath, configPath string, cfg config.Config) *Services {
	return &Services{
		Tracker: NewTrackerService(storagePath, cfg),
		Config:  NewConfigService(configPath, cfg),
	}
}

// HistoryPath returns the history database path, next to the log file
func (s *Services) HistoryPath() string {
	return filepath.Join(filepath.Dir(s.Tracker.StoragePath()), history.DefaultFile)
}

// OpenHistory opens the history archive. The caller closes it.
func (s *Services) OpenHistory() (*history.Store, error) {
	return history.Open(s.HistoryPath())
}
