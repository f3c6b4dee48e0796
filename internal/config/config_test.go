package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 400*time.Millisecond, cfg.Search.Delay.Duration)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestSaveThenLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://localhost:9999"
	cfg.Search.Delay = D(250 * time.Millisecond)
	cfg.Log.Level = "debug"
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "250ms")

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", loaded.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, loaded.Search.Delay.Duration)
	assert.Equal(t, "debug", loaded.Log.Level)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	svc := NewConfigServiceAt("unused")
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceAt(path)
	require.NoError(t, svc.Save(DefaultConfig()))

	t.Setenv("POSTGRIP_API_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("POSTGRIP_SEARCH_DELAY", "0s")

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Search.Delay.Duration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"relative url", func(c *Config) { c.API.BaseURL = "/posts" }, true},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = D(0) }, true},
		{"negative delay", func(c *Config) { c.Search.Delay = D(-time.Second) }, true},
		{"zero delay", func(c *Config) { c.Search.Delay = D(0) }, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "sqlite" }, true},
		{"redis without address", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.Redis.Address = ""
		}, true},
		{"redis", func(c *Config) { c.Cache.Backend = "redis" }, false},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 1m30s ")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
