// Package blogreader serves a blog-reading website over a remote, read-only
// Content API: a searchable listing, a detail page per post with highlighted
// code, and SEO metadata, built with Go, Echo, and templ.
package blogreader

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogreader/contentapi"
	"github.com/eringen/blogreader/highlight"
	"github.com/eringen/blogreader/views"
)

// App is the central blogreader application. It wires together the Content
// API client, cache, preferences, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *PostCache
	Meta   *MetadataResolver
	Prefs  PreferenceStore
	Copies *CopyTracker

	source       PostSource
	apiBase      string
	mediaClient  *http.Client
	mediaLimiter *RateLimiter
	imageHosts   map[string]bool
	chromaCSS    []byte
}

// New creates an App ready to serve: config is validated, middleware and
// routes are installed on a.Echo.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("blogreader: %w", err)
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = randomSecret()
		a.Echo.Logger.Warn("blogreader: session_secret not set, preferences reset on restart")
	}

	client, err := contentapi.New(cfg.APIURL, contentapi.WithTimeout(cfg.APITimeout))
	if err != nil {
		return nil, fmt.Errorf("blogreader: %w", err)
	}
	a.source = client
	a.apiBase = client.BaseURL()

	for _, opt := range opts {
		opt(a)
	}
	if a.Prefs == nil {
		a.Prefs = SessionPreferences{}
	}
	if a.Copies == nil {
		a.Copies = NewCopyTracker(CopyAckDuration)
	}

	a.Cache = NewPostCache(a.source, a.Config.CacheTTL)
	a.Meta = NewMetadataResolver(a.source, a.site(), a.Echo.Logger)
	a.mediaClient = a.newMediaClient()
	a.mediaLimiter = NewRateLimiter(120, time.Minute)
	a.imageHosts = allowedImageHosts(a.apiBase, a.Config.ImageHosts)

	var css bytes.Buffer
	if err := highlight.WriteCSS(&css); err != nil {
		return nil, fmt.Errorf("blogreader: highlight css: %w", err)
	}
	a.chromaCSS = css.Bytes()

	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Start serves until the server is shut down.
func (a *App) Start() error {
	a.Echo.Logger.Infof("blogreader listening on %s (content api %s)", a.Config.Addr, a.apiBase)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and background workers.
func (a *App) Shutdown(ctx context.Context) error {
	a.mediaLimiter.Stop()
	return a.Echo.Shutdown(ctx)
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Twitter:     a.Config.Twitter,
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/chroma.css", a.handleChromaCSS)
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))
	e.GET("/favicon.svg", echo.WrapHandler(http.FileServer(http.FS(assets))))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/media/", a.handleMedia)

	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/partials/posts/", a.handlePostList)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/partials/blog/:slug/", a.handleArticle)
	e.POST("/blog/:slug/subtopics/:id/copy/", a.handleCopy)
	e.POST("/preferences/dark-mode/", a.handleDarkMode)
}

func parseLogLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("blogreader: generate session secret: %v", err))
	}
	return hex.EncodeToString(b)
}
