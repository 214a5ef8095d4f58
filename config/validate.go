package config

import (
	"path/filepath"

	"github.com/cbillows/launchd-me/errors"
)

// Validate checks a loaded configuration for values the rest of the system
// depends on. Every managed path must be absolute: descriptors embed these
// paths verbatim and launchd resolves nothing relative.
func Validate(cfg *Config) error {
	if cfg.Label.Namespace == "" {
		return errors.WithHint(
			errors.New("label.namespace must not be empty"),
			"set label.namespace in ~/.ldm/config.toml, e.g. \"local.ldm\"")
	}

	paths := map[string]string{
		"paths.project_dir": cfg.Paths.ProjectDir,
		"paths.plist_dir":   cfg.Paths.PlistDir,
		"paths.log_dir":     cfg.Paths.LogDir,
		"paths.agents_dir":  cfg.Paths.AgentsDir,
		"database.path":     cfg.Database.Path,
	}
	for key, path := range paths {
		if path == "" {
			return errors.Newf("%s must not be empty", key)
		}
		if !filepath.IsAbs(path) {
			return errors.WithHintf(
				errors.Newf("%s must be an absolute path, got %q", key, path),
				"launchd resolves nothing relative; use a path under your home directory")
		}
	}

	if cfg.Launchd.TimeoutSeconds <= 0 {
		return errors.Newf("launchd.timeout_seconds must be positive, got %d", cfg.Launchd.TimeoutSeconds)
	}

	return nil
}
