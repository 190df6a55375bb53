package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"airwatch/internal/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FEED_URL", "API_URL", "FETCH_TIMEOUT", "REFRESH_INTERVAL", "WINDOW_SIZE", "HISTORY_LIMIT", "REDIS_ADDR", "CORS_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_URL", "https://api.thingspeak.com/channels/1/feeds.json?results=100")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.thingspeak.com/channels/1/feeds.json?results=100", cfg.FeedURL)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Equal(t, 10*time.Second, cfg.RefreshInterval)
	require.Equal(t, 6, cfg.WindowSize)
	require.Equal(t, 100, cfg.HistoryLimit)
	require.Equal(t, "8080", cfg.ServerPort)
	require.False(t, cfg.RedisEnabled())
}

func TestLoadAPIURLAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "http://feed.local/feeds.json")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "http://feed.local/feeds.json", cfg.FeedURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_URL", "http://feed.local/feeds.json")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("WINDOW_SIZE", "12")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.RefreshInterval)
	require.Equal(t, 12, cfg.WindowSize)
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, 30*time.Second, cfg.SnapshotTTL)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "airwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feed_url: http://file.local/feeds.json
history_limit: 50
cors_origins:
  - http://localhost:5173
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://file.local/feeds.json", cfg.FeedURL)
	require.Equal(t, 50, cfg.HistoryLimit)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadRequiresFeedURL(t *testing.T) {
	clearEnv(t)

	_, err := config.Load("")
	require.ErrorContains(t, err, "feed_url is required")
}

func TestValidate(t *testing.T) {
	cfg := config.Config{
		FeedURL:         "http://feed.local",
		FetchTimeout:    time.Second,
		RefreshInterval: time.Second,
		WindowSize:      0,
		HistoryLimit:    10,
	}
	require.ErrorContains(t, cfg.Validate(), "window_size")

	cfg.WindowSize = 6
	require.NoError(t, cfg.Validate())

	cfg.RedisAddr = "localhost:6379"
	require.ErrorContains(t, cfg.Validate(), "snapshot_ttl")
}
