package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	want := Config{
		BaseURL:        "https://reqres.in/api",
		APIKey:         "reqres-free-v1",
		RequestTimeout: 10 * time.Second,
		DatabasePath:   "dirkeeper.db",
		PageSize:       6,
		ErrorTTL:       5 * time.Second,
		LogLevel:       "info",
	}
	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"base_url":        "http://json.example/api",
		"api_key":         "from-json",
		"request_timeout": "3s",
		"page_size":       4,
	})
	t.Setenv("DIRKEEPER_API_KEY", "from-env")
	t.Setenv("DIRKEEPER_PAGE_SIZE", "8")
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag.example/api"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://flag.example/api", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.ErrorTTL)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DIRKEEPER_ERROR_TTL", "2s")
	t.Setenv("DIRKEEPER_DB_PATH", "/tmp/x.db")

	cfg := defaults()
	parseEnv(&cfg)

	want := defaults()
	want.ErrorTTL = 2 * time.Second
	want.DatabasePath = "/tmp/x.db"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	t.Setenv("DIRKEEPER_PAGE_SIZE", "many")

	cfg := defaults()
	require.Panics(t, func() { parseEnv(&cfg) })
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://127.0.0.1:9090/api", "-k", "secret", "-t", "30", "-d", "x.db"},
			expected: &Config{
				BaseURL:        "http://127.0.0.1:9090/api",
				APIKey:         "secret",
				RequestTimeout: 30 * time.Second,
				DatabasePath:   "x.db",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-t", "2"},
			expected: &Config{RequestTimeout: 2 * time.Second},
		},
		{name: "bad timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
