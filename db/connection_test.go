package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEnablesPragmas(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestOpenWithMigrations(t *testing.T) {
	t.Run("creates full schema on fresh database", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		defer db.Close()

		for _, table := range []string{"schema_migrations", "jobs", "installation_events"} {
			var count int
			err = db.QueryRow(
				"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
			).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count, "table %s should exist after migrations", table)
		}
	})

	t.Run("reopening an already-migrated database is a no-op", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		db.Close()

		db, err = OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		defer db.Close()

		var applied int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
		assert.Equal(t, 3, applied)
	})
}

func TestJobsTableConstraints(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := OpenWithMigrations(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	insert := `INSERT INTO jobs (label, script_path, descriptor_path, descriptor_content,
		schedule_type, schedule_value, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`

	_, err = db.Exec(insert, "local.ldm.a", "/s.py", "/d.plist", "<plist/>", "interval", "300", "unregistered")
	require.NoError(t, err)

	// Duplicate label violates the UNIQUE constraint
	_, err = db.Exec(insert, "local.ldm.a", "/s.py", "/d.plist", "<plist/>", "interval", "300", "unregistered")
	assert.Error(t, err)

	// Unknown status violates the CHECK constraint
	_, err = db.Exec(insert, "local.ldm.b", "/s.py", "/d.plist", "<plist/>", "interval", "300", "bogus")
	assert.Error(t, err)
}
