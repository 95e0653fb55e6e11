package blogreader

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogreader/contentapi"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	atomNS    = "http://www.w3.org/2005/Atom"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Self          atomLink  `xml:"atom:link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// parseCreatedAt parses the API's created_at timestamp.
func parseCreatedAt(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// buildRSS turns posts into an RSS 2.0 document. Subtopic titles become
// item categories; the newest post dates the channel.
func buildRSS(cfg SiteConfig, posts []contentapi.Post) rssDoc {
	var newest time.Time
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := BuildURL(cfg.URL, "blog", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
		}
		for _, s := range p.Subtopics {
			item.Categories = append(item.Categories, s.Title)
		}
		if t, ok := parseCreatedAt(p.CreatedAt); ok {
			item.PubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		items = append(items, item)
	}

	doc := rssDoc{
		Version: "2.0",
		Atom:    atomNS,
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        BuildURL(cfg.URL),
			Self:        atomLink{Href: BuildURL(cfg.URL) + "feed.xml", Rel: "self", Type: "application/rss+xml"},
			Description: cfg.Description,
			Items:       items,
		},
	}
	if !newest.IsZero() {
		doc.Channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return doc
}

func buildSitemap(cfg SiteConfig, posts []contentapi.Post) urlSet {
	set := urlSet{XMLNS: sitemapNS, URLs: []sitemapURL{{Loc: BuildURL(cfg.URL)}}}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(cfg.URL, "blog", p.Slug)}
		if t, ok := parseCreatedAt(p.CreatedAt); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

func writeXML(c echo.Context, contentType string, v any) error {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return writeXML(c, "application/rss+xml; charset=utf-8", buildRSS(a.Config, posts))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return writeXML(c, "application/xml; charset=utf-8", buildSitemap(a.Config, posts))
}
