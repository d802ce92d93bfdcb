package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/punch/internal/app"
	"github.com/xolan/punch/internal/osutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// DefaultListenAddr is where the HTTP API listens unless configured otherwise
	DefaultListenAddr = "127.0.0.1:7878"
	// DefaultTheme is the bubbletint id used by the TUI
	DefaultTheme = "dracula"
)

// Config represents the application configuration
type Config struct {
	// WeekStartDay defines which day starts the week (monday or sunday)
	WeekStartDay string `toml:"week_start_day"`
	// DataDir overrides the directory holding the log and history files
	DataDir string `toml:"data_dir"`
	// LogFile is the name of the CSV log inside the data directory
	LogFile string `toml:"log_file"`
	// MaxIdle closes a forgotten work interval after this long (Go duration, empty disables)
	MaxIdle string `toml:"max_idle"`
	// Theme is the bubbletint theme id used by the TUI
	Theme string `toml:"theme"`
	// ListenAddr is the address the HTTP API listens on
	ListenAddr string `toml:"listen_addr"`
}

// DefaultConfig returns a Config with sensible defaults.
// - week_start_day: "monday" (ISO 8601)
// - data_dir: "" (the punch config directory)
// - log_file: "log.csv"
// - max_idle: "" (disabled)
func DefaultConfig() Config {
	return Config{
		WeekStartDay: "monday",
		DataDir:      "",
		LogFile:      "log.csv",
		MaxIdle:      "",
		Theme:        DefaultTheme,
		ListenAddr:   DefaultListenAddr,
	}
}

// Load reads and validates the config file at path.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file at path, or returns the defaults
// when the file does not exist.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to access config file: %w", err)
	}
	return Load(path)
}

// Normalize trims whitespace and lowercases case-insensitive fields in place.
func (c *Config) Normalize() {
	c.WeekStartDay = strings.ToLower(strings.TrimSpace(c.WeekStartDay))
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.MaxIdle = strings.TrimSpace(c.MaxIdle)
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
}

// Validate checks that the config values are valid.
// Call Normalize first; Validate does not change the config.
func (c *Config) Validate() error {
	if c.WeekStartDay != "monday" && c.WeekStartDay != "sunday" {
		return fmt.Errorf("invalid week_start_day %q: must be \"monday\" or \"sunday\"", c.WeekStartDay)
	}

	if c.LogFile == "" {
		return fmt.Errorf("invalid log_file: must not be empty")
	}
	if filepath.Base(c.LogFile) != c.LogFile {
		return fmt.Errorf("invalid log_file %q: must be a file name, not a path", c.LogFile)
	}

	if _, err := c.MaxIdleDuration(); err != nil {
		return err
	}

	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return fmt.Errorf("invalid listen_addr %q: %w", c.ListenAddr, err)
		}
	}

	return nil
}

// MaxIdleDuration returns the parsed max_idle value. Zero means disabled.
func (c Config) MaxIdleDuration() (time.Duration, error) {
	if c.MaxIdle == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.MaxIdle)
	if err != nil {
		return 0, fmt.Errorf("invalid max_idle %q: %w", c.MaxIdle, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid max_idle %q: must not be negative", c.MaxIdle)
	}
	return d, nil
}

// WeekStart returns the configured first day of the week
func (c Config) WeekStart() time.Weekday {
	if c.WeekStartDay == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// GenerateSampleConfig returns a commented sample config file
func GenerateSampleConfig() string {
	return `# punch configuration file
# Uncomment and change the values you want to override.

# First day of the week for weekly totals: "monday" (ISO 8601) or "sunday"
# week_start_day = "monday"

# Directory holding log.csv and history.db.
# Empty means the punch directory inside your user config directory.
# data_dir = "/home/me/timesheets"

# Name of the CSV log inside data_dir
# log_file = "log.csv"

# Close a work interval that was left open for longer than this.
# A break is recorded at last work + max_idle. Empty disables it.
# Examples: "8h", "90m"
# max_idle = "10h"

# TUI theme (bubbletint id), e.g. "dracula", "nord", "gruvbox_dark"
# theme = "dracula"

# Address for "punch serve"
# listen_addr = "127.0.0.1:7878"
`
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, app.Name)

	// Create config directory if it doesn't exist
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, ConfigFile), nil
}
