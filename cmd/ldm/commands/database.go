package commands

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/db"
	"github.com/cbillows/launchd-me/errors"
	"github.com/cbillows/launchd-me/logger"
)

// openDatabase opens and migrates the registry database. If dbPath is empty
// the configured path is used.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := config.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		dbPath = path
	}

	// First run: the registry's parent directory may not exist yet
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DefaultDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to create database directory for %s", dbPath)
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	return database, nil
}
