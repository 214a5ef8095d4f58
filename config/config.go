// Package config loads and validates the launchd-me configuration.
//
// Configuration is resolved from (lowest to highest precedence) built-in
// defaults, ~/.ldm/config.toml, a project-local ldm.toml, and LDM_* environment
// variables.
package config

// Config represents the core launchd-me configuration
type Config struct {
	Label    LabelConfig    `mapstructure:"label"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Database DatabaseConfig `mapstructure:"database"`
	Launchd  LaunchdConfig  `mapstructure:"launchd"`
}

// LabelConfig controls how job labels are derived
type LabelConfig struct {
	// Namespace prefixes every generated label, launchd reverse-DNS style
	// (e.g. "local.ldm" yields "local.ldm.backup" for backup.py).
	Namespace string `mapstructure:"namespace"`
}

// PathsConfig configures the directories the tool owns or touches
type PathsConfig struct {
	ProjectDir string `mapstructure:"project_dir"` // root of managed state (default: ~/launchd-me)
	PlistDir   string `mapstructure:"plist_dir"`   // rendered descriptors (default: <project_dir>/plist_files)
	LogDir     string `mapstructure:"log_dir"`     // per-job stdout/stderr logs (default: <project_dir>/logs)
	AgentsDir  string `mapstructure:"agents_dir"`  // launchd per-user agents directory (default: ~/Library/LaunchAgents)
}

// DatabaseConfig configures the SQLite job registry
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LaunchdConfig configures how OS commands are invoked
type LaunchdConfig struct {
	LaunchctlPath  string `mapstructure:"launchctl_path"`  // launchctl binary (default: "launchctl")
	PlutilPath     string `mapstructure:"plutil_path"`     // plist linter binary (default: "plutil")
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // bounded wait for subprocess completion (default: 10)
	Interpreter    string `mapstructure:"interpreter"`     // interpreter for scheduled scripts (default: "/usr/bin/python3")
}
