package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/pricelog/domain"
)

// clearEnv blanks every variable NewConfig reads so defaults apply
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PRICE_FILE", "POLL_INTERVAL", "COINGECKO_URL", "HTTP_TIMEOUT",
		"ERROR_POLICY", "RUN_ONCE", "METRICS_ADDR", "LOG_ENV",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "price.txt", cfg.PriceFile)
		assert.Equal(t, 10*time.Second, cfg.Interval)
		assert.Equal(t, domain.DefaultBaseURL, cfg.Url)
		assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
		assert.Equal(t, PolicyAbort, cfg.ErrorPolicy)
		assert.False(t, cfg.RunOnce)
		assert.Empty(t, cfg.MetricsAddr)
		assert.False(t, cfg.SkipFailed())
	})

	t.Run("with environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRICE_FILE", "/tmp/prices.log")
		t.Setenv("POLL_INTERVAL", "1m")
		t.Setenv("COINGECKO_URL", "http://test.com/price")
		t.Setenv("HTTP_TIMEOUT", "15s")
		t.Setenv("ERROR_POLICY", "skip")
		t.Setenv("RUN_ONCE", "true")
		t.Setenv("METRICS_ADDR", ":9090")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "/tmp/prices.log", cfg.PriceFile)
		assert.Equal(t, time.Minute, cfg.Interval)
		assert.Equal(t, "http://test.com/price", cfg.Url)
		assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
		assert.True(t, cfg.SkipFailed())
		assert.True(t, cfg.RunOnce)
		assert.Equal(t, ":9090", cfg.MetricsAddr)
	})

	t.Run("options take precedence", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRICE_FILE", "from-env.txt")

		cfg, err := NewConfig(
			WithPriceFile("from-option.txt"),
			WithInterval(time.Second),
			WithErrorPolicy(PolicySkip),
		)
		require.NoError(t, err)

		assert.Equal(t, "from-option.txt", cfg.PriceFile)
		assert.Equal(t, time.Second, cfg.Interval)
		assert.Equal(t, PolicySkip, cfg.ErrorPolicy)
	})
}

func TestNewConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		opts []Option
	}{
		{name: "zero interval", opts: []Option{WithInterval(0)}},
		{name: "negative timeout", env: map[string]string{"HTTP_TIMEOUT": "-1s"}},
		{name: "relative url", env: map[string]string{"COINGECKO_URL": "not-a-url"}},
		{name: "unknown policy", opts: []Option{WithErrorPolicy("retry")}},
		{name: "empty price file", opts: []Option{WithPriceFile("")}},
		{name: "bad duration", env: map[string]string{"POLL_INTERVAL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig(tt.opts...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRICE_FILE=dotenv.txt\nPOLL_INTERVAL=30s\n"), 0o644))

	loaded, err := LoadEnvFile(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)

	t.Cleanup(func() {
		os.Unsetenv("PRICE_FILE")
		os.Unsetenv("POLL_INTERVAL")
	})

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "dotenv.txt", cfg.PriceFile)
	assert.Equal(t, 30*time.Second, cfg.Interval)
}

func TestLoadEnvFileNoneFound(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
