package blogreader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogreader.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
name: Field Notes
url: https://notes.example.com
api_url: https://api.example.com
api_timeout: 3s
cache_ttl: 30s
image_hosts:
  - cdn.example.com
log_level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Field Notes", cfg.Name)
	assert.Equal(t, "https://notes.example.com", cfg.URL)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"cdn.example.com"}, cfg.ImageHosts)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":3000", cfg.Addr, "unset keys keep their defaults")
	assert.True(t, cfg.ImageProxy)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_url: https://api.example.com\n")
	t.Setenv("BLOGREADER_API_URL", "http://content.internal:8000")
	t.Setenv("BLOGREADER_IMAGE_PROXY", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://content.internal:8000", cfg.APIURL)
	assert.False(t, cfg.ImageProxy)
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "name: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SiteConfig)
		wantErr string
	}{
		{"defaults", func(*SiteConfig) {}, ""},
		{"relative url", func(c *SiteConfig) { c.URL = "/blog" }, "invalid url"},
		{"ftp api", func(c *SiteConfig) { c.APIURL = "ftp://api" }, "invalid api_url"},
		{"negative timeout", func(c *SiteConfig) { c.APITimeout = -time.Second }, "api_timeout"},
		{"short secret", func(c *SiteConfig) { c.SessionSecret = "short" }, "session_secret"},
		{"log level", func(c *SiteConfig) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewFillsDefaults(t *testing.T) {
	a := newTestApp(t, SiteConfig{SessionSecret: testSecret, LogLevel: "off"})
	assert.Equal(t, "Blog", a.Config.Name)
	assert.Equal(t, "http://localhost:8000", a.apiBase)
	assert.Equal(t, time.Minute, a.Config.CacheTTL)
}

func TestNewGeneratesSessionSecret(t *testing.T) {
	a := newTestApp(t, SiteConfig{LogLevel: "off"})
	assert.Len(t, a.Config.SessionSecret, 64)
}
