package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 400*time.Millisecond, cfg.FetchDelay)
}

func TestLoad_Precedence(t *testing.T) {
	yamlPath := writeFile(t, "leyum.yaml", `
addr: ":9000"
api_base_url: "https://food.example.com/api"
fetch_delay: 1s
grow_delay: 50ms
log_level: warn
`)
	dotenv := writeFile(t, ".env", "LEYUM_CONFIG="+yamlPath+"\nLEYUM_GROW_DELAY=10ms\nLEYUM_LOG_LEVEL=error\n")
	t.Setenv("LEYUM_LOG_LEVEL", "debug")

	cfg, err := Load(dotenv)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr, "yaml over default")
	assert.Equal(t, "https://food.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, time.Second, cfg.FetchDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.GrowDelay, ".env over yaml")
	assert.Equal(t, "debug", cfg.LogLevel, "process env over .env")
	assert.Equal(t, 2*time.Second, cfg.ProcessingDelay, "untouched default")
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"relative url":     {"LEYUM_API_BASE_URL": "/api"},
		"ftp url":          {"LEYUM_API_BASE_URL": "ftp://example.com"},
		"bad duration":     {"LEYUM_FETCH_DELAY": "soon"},
		"negative delay":   {"LEYUM_GROW_DELAY": "-1s"},
		"unknown level":    {"LEYUM_LOG_LEVEL": "loud"},
		"missing yaml":     {"LEYUM_CONFIG": "/does/not/exist.yaml"},
		"no sweep":         {"LEYUM_SWEEP_INTERVAL": "0s"},
		"negative timeout": {"LEYUM_API_TIMEOUT": "-5s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(noDotenv(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Setenv("LEYUM_CONFIG", writeFile(t, "bad.yaml", "addr: [unterminated"))
	_, err := Load(noDotenv(t))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_ZeroTTLAllowed(t *testing.T) {
	t.Setenv("LEYUM_SESSION_TTL", "0s")
	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Zero(t, cfg.SessionTTL)
}
