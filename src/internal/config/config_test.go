package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comicmeta/src/internal/config"
)

func writeConfig(t *testing.T, path string, prefs config.Prefs, mod time.Time) {
	t.Helper()
	data, err := toml.Marshal(prefs)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	prefs, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, config.Default(), prefs)
	assert.Equal(t, 30*time.Second, prefs.Timeout())
}

func TestLoadNormalizesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_key = \"  abc \"\nbase_url = \"http://localhost:9000/api/\"\n"), 0o600))

	prefs, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "abc", prefs.APIKey)
	assert.Equal(t, "http://localhost:9000/api", prefs.BaseURL)
	assert.Equal(t, 30, prefs.TimeoutSeconds)

	require.NoError(t, os.WriteFile(path, []byte("base_url = \"ftp://x\"\n"), 0o600))
	_, _, err = config.Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds = -1\n"), 0o600))
	_, _, err = config.Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("api_key = [\n"), 0o600))
	_, _, err = config.Load(path)
	assert.Error(t, err)
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := config.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "comicmeta", "config.toml"), path)
}

func TestStoreReloadsChangedFile(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	base := time.Now().Add(-time.Hour)

	store, err := config.Open(path)
	require.NoError(t, err)
	assert.False(t, store.Configured())

	writeConfig(t, path, config.Prefs{APIKey: "first"}, base)
	assert.Equal(t, "first", store.APIKey())

	writeConfig(t, path, config.Prefs{APIKey: "second"}, base.Add(time.Minute))
	assert.Equal(t, "second", store.APIKey())
	assert.True(t, store.Configured())
}

func TestStoreEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, config.Prefs{APIKey: "file"}, time.Now())
	store, err := config.Open(path)
	require.NoError(t, err)

	t.Setenv(config.EnvAPIKey, " env ")
	assert.Equal(t, "env", store.APIKey())
	t.Setenv(config.EnvAPIKey, "")
	assert.Equal(t, "file", store.APIKey())
}

func TestStoreSetAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	store, err := config.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetAPIKey("k123"))
	assert.Equal(t, "k123", store.APIKey())

	prefs, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "k123", prefs.APIKey)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}
