// Package contentapi is a read-only client for the blog Content API.
package contentapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// ErrNotFound is returned when the API has no post for a slug.
var ErrNotFound = errors.New("contentapi: post not found")

// StatusError reports a non-2xx response other than 404.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contentapi: %s returned %d", e.URL, e.Code)
}

// Client fetches posts from the Content API.
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   *time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A nil client is
// ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. It applies
// regardless of where WithHTTPClient appears, to a copy of that client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for baseURL. An empty baseURL falls back to
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("contentapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("contentapi: base url %q must be http or https", baseURL)
	}
	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "blogreader",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListPosts fetches every post.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.get(ctx, "/api/blogs/", &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		c.resolvePost(&posts[i])
	}
	return posts, nil
}

// GetPost fetches a single post, with its subtopics, by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	if strings.TrimSpace(slug) == "" {
		return Post{}, ErrNotFound
	}
	var post Post
	if err := c.get(ctx, "/api/blogs/"+url.PathEscape(slug)+"/", &post); err != nil {
		return Post{}, err
	}
	c.resolvePost(&post)
	return post, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	endpoint := c.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("contentapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contentapi: get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("contentapi: decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) resolvePost(p *Post) {
	p.Thumbnail = c.ResolveURL(p.Thumbnail)
	p.DescriptionImage = c.ResolveURL(p.DescriptionImage)
	p.Image = c.ResolveURL(p.Image)
	for i := range p.Subtopics {
		p.Subtopics[i].Image = c.ResolveURL(p.Subtopics[i].Image)
	}
}

// ResolveURL makes a media reference absolute against the API base.
// Absolute URLs and empty strings are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	return c.base.ResolveReference(u).String()
}
