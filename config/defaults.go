package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// Path defaults are anchored at the user's home directory, matching where
// launchd expects per-user agents to live.
func SetDefaults(v *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to relative paths; Validate rejects them with a useful hint.
		homeDir = "."
	}

	projectDir := filepath.Join(homeDir, "launchd-me")

	// Label defaults
	v.SetDefault("label.namespace", "local.ldm")

	// Path defaults
	v.SetDefault("paths.project_dir", projectDir)
	v.SetDefault("paths.plist_dir", filepath.Join(projectDir, "plist_files"))
	v.SetDefault("paths.log_dir", filepath.Join(projectDir, "logs"))
	v.SetDefault("paths.agents_dir", filepath.Join(homeDir, "Library", "LaunchAgents"))

	// Database defaults
	v.SetDefault("database.path", filepath.Join(projectDir, "launchd-me.db"))

	// Launchd command defaults
	v.SetDefault("launchd.launchctl_path", "launchctl")
	v.SetDefault("launchd.plutil_path", "plutil")
	v.SetDefault("launchd.timeout_seconds", 10)
	v.SetDefault("launchd.interpreter", "/usr/bin/python3")
}
