package views

import "html/template"

// SiteConfig holds site-wide settings that every page renders with.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	Twitter     string // @handle for twitter:site
}

// PageMeta carries per-page SEO, OpenGraph and Twitter metadata into <head>.
type PageMeta struct {
	Title         string
	Description   string
	Canonical     string
	OGType        string // "website" or "article"
	OGTitle       string
	OGDescription string
	Images        []string
	PublishedTime string
	TwitterCard   string // "summary" or "summary_large_image"
	JSONLD        template.JS
}

// Chrome is the state shared by every full page: site, metadata and the
// visitor's preferences.
type Chrome struct {
	Site      SiteConfig
	Meta      PageMeta
	DarkMode  bool
	CSRFToken string
}

// HomePage is the listing page shell. The list itself is loaded from
// PostsURL.
type HomePage struct {
	Chrome
	Search   string
	PostsURL string
}

// PostPage is the detail page shell. The article is loaded from ArticleURL.
type PostPage struct {
	Chrome
	Slug       string
	ArticleURL string
}

// PostCard is one entry in the listing.
type PostCard struct {
	Title       string
	Description string
	Image       string
	Date        string
	URL         string
	Chips       []string
}

// Listing is the filtered post list fragment.
type Listing struct {
	Query string
	Cards []PostCard
}

// Article is the rendered detail of one post.
type Article struct {
	Title            string
	Description      string
	Thumbnail        string
	DescriptionImage string
	Date             string
	DateISO          string
	Sections         []Section
}

// Section is one subtopic of an Article.
type Section struct {
	ID            int64
	Title         string
	Content       template.HTML
	Image         string
	HasCode       bool
	LanguageLabel string
	LanguageClass string
	Code          template.HTML
	Copied        bool
	CopiedForMS   int64 // time left on the acknowledgement when Copied
	CopyURL       string
}
