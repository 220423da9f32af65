package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaults(t *testing.T) {
	for _, name := range []string{"foodhub.yaml", "foodhub.toml"} {
		t.Run(name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), name)
			c, err := Load(filename)
			require.NoError(t, err)
			assert.Equal(t, Default(), c)

			_, err = os.Stat(filename)
			require.NoError(t, err)

			c2, err := Load(filename)
			require.NoError(t, err)
			assert.Equal(t, Default(), c2)
		})
	}
}

func TestLoadYaml(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "foodhub.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(`
database:
  driver: sqlite
  path: backend/food_delivery.db
log_level: debug
monitor:
  interval: 500ms
`), 0644))

	c, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "backend/food_delivery.db", c.Database.Path)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 500*time.Millisecond, c.Monitor.IntervalDuration())
	assert.Equal(t, 20*time.Second, c.Monitor.WatchDuration())
	assert.Equal(t, ".", c.ExportDir)
}

func TestLoadTomlRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "foodhub.toml")
	c := Default()
	c.Database.Path = "data/food.db"
	c.Monitor.IgnoreDirs = []string{"node_modules", "backend/venv"}
	require.NoError(t, Save(filename, c))

	got, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"driver":   "database:\n  driver: mysql\n",
		"path":     "database:\n  path: ' '\n",
		"level":    "log_level: loud\n",
		"interval": "monitor:\n  interval: soon\n",
		"zero":     "monitor:\n  interval: 0s\n",
		"negative": "monitor:\n  duration: -1s\n",
		"syntax":   "database: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "foodhub.yaml")
			require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
			_, err := Load(filename)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/other.db")
	t.Setenv(EnvDriver, "sqlite")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvExportDir, "exports")

	c := Default()
	ApplyEnv(&c)
	assert.Equal(t, "/tmp/other.db", c.Database.Path)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "exports", c.ExportDir)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	require.NoError(t, os.WriteFile(".env", []byte("FOODHUB_DB=from-dotenv.db\n"), 0644))
	for _, k := range []string{EnvDB, EnvDriver, EnvLogLevel, EnvExportDir} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	c, err := Resolve(DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", c.Database.Path)

	t.Setenv(EnvDriver, "postgres")
	_, err = Resolve(DefaultFileName)
	assert.Error(t, err)
}
