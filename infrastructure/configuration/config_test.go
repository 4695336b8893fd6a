package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("YOUTUBE_API_KEY", "")

	c := Load()

	assert.Equal(t, 10001, c.App.Port)
	assert.Equal(t, 30*time.Second, c.App.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.YouTube.Timeout)
	assert.False(t, c.YouTube.HasAPIKey())
	assert.Equal(t, 20, c.Search.Defaults.MaxResults)
	assert.Equal(t, int64(1500), c.Search.Defaults.MinSubscribers)
	assert.Equal(t, int64(10000), c.Search.Defaults.MaxSubscribers)
	assert.Equal(t, int64(10000), c.Search.Defaults.MinViews)
	assert.Equal(t, 5, c.Search.Concurrency)
	assert.False(t, c.RedisClient.Enabled())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ENV", "test")
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")

	raw := `{
		"app": {"port": 8080, "requestTimeout": "5s"},
		"youtube": {"apiKey": "file-key", "timeout": "2s"},
		"search": {"defaults": {"minViews": 500}, "concurrency": 3},
		"redisClient": {"host": "localhost", "port": "6380"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config-test.json"), []byte(raw), 0o600))

	c := Load()

	assert.Equal(t, 8080, c.App.Port)
	assert.Equal(t, 5*time.Second, c.App.RequestTimeout)
	assert.Equal(t, "env-key", c.YouTube.APIKey)
	assert.True(t, c.YouTube.HasAPIKey())
	assert.Equal(t, 2*time.Second, c.YouTube.Timeout)
	assert.Equal(t, int64(500), c.Search.Defaults.MinViews)
	assert.Equal(t, int64(1500), c.Search.Defaults.MinSubscribers)
	assert.Equal(t, 3, c.Search.Concurrency)
	assert.True(t, c.RedisClient.Enabled())
	assert.Equal(t, "localhost:6380", c.RedisClient.Addr())
}

func TestPlaceholderAPIKey(t *testing.T) {
	assert.False(t, YouTube{APIKey: "YOUR_YOUTUBE_API_KEY"}.HasAPIKey())
	assert.True(t, YouTube{APIKey: "AIza"}.HasAPIKey())

	assert.Equal(t, "", YouTube{APIKey: "YOUR_YOUTUBE_API_KEY"}.EffectiveAPIKey())
	assert.Equal(t, "", YouTube{}.EffectiveAPIKey())
	assert.Equal(t, "AIza", YouTube{APIKey: "AIza"}.EffectiveAPIKey())
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(path, []byte("DASHBOARD_TEST_A=from-file\nDASHBOARD_TEST_B=from-file\n"), 0o600))
	t.Setenv("DASHBOARD_TEST_B", "from-env")

	loaded := LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { os.Unsetenv("DASHBOARD_TEST_A") })

	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "from-file", os.Getenv("DASHBOARD_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("DASHBOARD_TEST_B"))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
