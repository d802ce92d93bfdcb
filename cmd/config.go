package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for punch.

punch works without any configuration file. All settings have defaults:
  - week_start_day: monday
  - data_dir: (empty, uses the config directory)
  - log_file: log.csv
  - max_idle: (empty, disabled)
  - theme: dracula
  - listen_addr: 127.0.0.1:7878

Configuration file location:
  ~/.config/punch/config.toml        Linux
  ~/Library/Application Support/punch/config.toml   macOS
  %APPDATA%\punch\config.toml        Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	Long:  `Write a commented sample config.toml to the configuration directory.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func showConfig() {
	services, err := deps.Services()
	if err != nil {
		fail("Failed to load configuration", err,
			"Check that your config file is valid TOML. Valid week_start_day values: monday, sunday")
		return
	}

	cfg := services.Config.Get()
	maxIdle := cfg.MaxIdle
	if maxIdle == "" {
		maxIdle = "(disabled)"
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for punch")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", services.Config.GetPath())
	if services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Log file:        %s\n", services.Tracker.StoragePath())
	_, _ = fmt.Fprintf(deps.Stdout, "History:         %s\n", services.HistoryPath())
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "  week_start_day: %s\n", cfg.WeekStartDay)
	_, _ = fmt.Fprintf(deps.Stdout, "  data_dir:       %s\n", dataDir)
	_, _ = fmt.Fprintf(deps.Stdout, "  log_file:       %s\n", cfg.LogFile)
	_, _ = fmt.Fprintf(deps.Stdout, "  max_idle:       %s\n", maxIdle)
	_, _ = fmt.Fprintf(deps.Stdout, "  theme:          %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "  listen_addr:    %s\n", cfg.ListenAddr)

	if !services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Run 'punch config init' to create a sample config file")
	}
}

func initConfig() {
	services, err := deps.Services()
	if err != nil {
		fail("Failed to determine config file location", err, "")
		return
	}

	if err := services.Config.Init(); err != nil {
		fail("Failed to create config file", err, "Edit the existing file or remove it first")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created sample config at %s\n", services.Config.GetPath())
}
