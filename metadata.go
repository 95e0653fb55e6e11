package blogreader

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogreader/views"
)

const (
	notFoundTitle       = "Blog Not Found"
	notFoundDescription = "This blog post could not be found."
	defaultDescription  = "Read this blog post."
)

// MetadataResolver builds the <head> metadata of a post page. It reads the
// post on its own, independent of the article fragment, and never fails:
// any error yields the "not found" metadata.
type MetadataResolver struct {
	source PostSource
	site   views.SiteConfig
	logger echo.Logger
}

// NewMetadataResolver creates a resolver reading from src.
func NewMetadataResolver(src PostSource, site views.SiteConfig, logger echo.Logger) *MetadataResolver {
	return &MetadataResolver{source: src, site: site, logger: logger}
}

// Resolve returns the page metadata for slug.
func (r *MetadataResolver) Resolve(ctx context.Context, slug string) views.PageMeta {
	canonical := BuildURL(r.site.URL, "blog", slug)
	post, err := r.source.GetPost(ctx, slug)
	if err != nil {
		if r.logger != nil {
			r.logger.Debugf("metadata: %s: %v", slug, err)
		}
		return views.PageMeta{
			Title:         notFoundTitle,
			Description:   notFoundDescription,
			Canonical:     canonical,
			OGType:        "article",
			OGTitle:       notFoundTitle,
			OGDescription: notFoundDescription,
			TwitterCard:   "summary",
		}
	}

	title := r.site.Name
	if post.Title != "" {
		title = post.Title + " | " + r.site.Name
	}
	description := post.Description
	if description == "" {
		description = defaultDescription
	}
	meta := views.PageMeta{
		Title:         title,
		Description:   description,
		Canonical:     canonical,
		OGType:        "article",
		OGTitle:       post.Title,
		OGDescription: post.Description,
		PublishedTime: post.CreatedAt,
		TwitterCard:   "summary",
		JSONLD:        views.BlogPostingJsonLD(r.site, slug, post.Title, post.Description, post.CreatedAt, post.Thumbnail),
	}
	if post.Thumbnail != "" {
		meta.Images = []string{post.Thumbnail}
		meta.TwitterCard = "summary_large_image"
	}
	return meta
}

// HomeMeta returns the metadata of the listing page.
func HomeMeta(site views.SiteConfig) views.PageMeta {
	return views.PageMeta{
		Title:         site.Name,
		Description:   site.Description,
		Canonical:     BuildURL(site.URL),
		OGType:        "website",
		OGTitle:       site.Name,
		OGDescription: site.Description,
		TwitterCard:   "summary_large_image",
		JSONLD:        views.WebsiteJsonLD(site),
	}
}
