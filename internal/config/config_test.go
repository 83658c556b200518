package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileIsMissing(t *testing.T) {
	// when
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// then
	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.Listen)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "splitthat.db", cfg.Database.Path)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := "listen: \":9000\"\ndb:\n  driver: postgres\n  host: db.internal\n  port: 6543\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	// untouched keys keep their defaults
	assert.Equal(t, "splitthat", cfg.Database.Name)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: from-file.db\n"), 0o644))
	t.Setenv("SPLITTHAT_DB_PATH", "from-env.db")
	t.Setenv("SPLITTHAT_DB_PORT", "7777")

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
	assert.Equal(t, 7777, cfg.Database.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SPLITTHAT_DB_DRIVER", "mysql")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorContains(t, err, "unsupported db driver")
}
