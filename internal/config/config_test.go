package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WIKI_BASE_URL", "")
	t.Setenv("IMAGES_BATCH_SIZE", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://en.wikipedia.org", cfg.Wiki.BaseURL)
	assert.Equal(t, 5, cfg.Images.CriticalCount)
	assert.Equal(t, 5, cfg.Images.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Images.MinDisplay)
	assert.Equal(t, 200*time.Millisecond, cfg.Deck.SwipeDelay)
	assert.Equal(t, 3*time.Second, cfg.Deck.ClearConfirm)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WIKI_BASE_URL", "http://localhost:9999/")
	t.Setenv("IMAGES_BATCH_SIZE", "8")
	t.Setenv("LOADING_MIN_DISPLAY_MS", "0")
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("IMAGES_OFFLINE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Wiki.BaseURL)
	assert.Equal(t, 8, cfg.Images.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.Images.MinDisplay)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Images.Offline)
}

func TestValidateRejectsBadBatchSize(t *testing.T) {
	t.Setenv("IMAGES_BATCH_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMAGES_BATCH_SIZE")
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ICONDECK_TEST_INT", "not-a-number")
	assert.Equal(t, 42, getEnvInt("ICONDECK_TEST_INT", 42))
}
