package blogreader

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/blogreader/contentapi"
)

// EnvPrefix is the prefix of environment variables that override config
// keys: BLOGREADER_API_URL -> api_url.
const EnvPrefix = "BLOGREADER_"

// SiteConfig holds all configuration for a blogreader site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Blog")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Author name for JSON-LD
	Twitter     string `koanf:"twitter"`     // twitter:site handle

	Addr string `koanf:"addr"` // Listen address (default ":3000")

	APIURL     string        `koanf:"api_url"`     // Content API base (default "http://localhost:8000")
	APITimeout time.Duration `koanf:"api_timeout"` // Per-request timeout, 0 disables (default 10s)
	CacheTTL   time.Duration `koanf:"cache_ttl"`   // Post cache TTL, negative disables (default 1m)

	SessionSecret string `koanf:"session_secret"` // Signs the preferences cookie
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	ImageProxy bool     `koanf:"image_proxy"` // Route post images through /media/
	ImageHosts []string `koanf:"image_hosts"` // Extra hosts the proxy may fetch from

	LogLevel string `koanf:"log_level"` // debug, info, warn, error, off
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() SiteConfig {
	return SiteConfig{
		Name:        "Blog",
		URL:         "http://localhost:3000",
		Description: "Explore the latest blog posts on technology, programming, and more.",
		Author:      "Blog Author",
		Addr:        ":3000",
		APIURL:      contentapi.DefaultBaseURL,
		APITimeout:  10 * time.Second,
		CacheTTL:    time.Minute,
		ImageProxy:  true,
		LogLevel:    "info",
	}
}

// LoadConfig reads configuration from the YAML file at path (if it exists),
// then overlays BLOGREADER_* environment variables.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"off":   true,
}

// Validate checks that the configuration contains usable values.
func (c *SiteConfig) Validate() error {
	if err := validateHTTPURL("url", c.URL); err != nil {
		return err
	}
	if err := validateHTTPURL("api_url", c.APIURL); err != nil {
		return err
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("api_timeout must be non-negative")
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 16 {
		return fmt.Errorf("session_secret must be at least 16 characters")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error, off", c.LogLevel)
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", key, raw)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithPreferences replaces the store backing the dark-mode preference.
func WithPreferences(p PreferenceStore) Option {
	return func(a *App) {
		a.Prefs = p
	}
}

// WithContentSource replaces the Content API client used for every read.
func WithContentSource(src PostSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithCopyTracker replaces the copy acknowledgement tracker.
func WithCopyTracker(t *CopyTracker) Option {
	return func(a *App) {
		a.Copies = t
	}
}
