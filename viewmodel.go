package blogreader

import (
	"net/url"
	"strconv"

	"github.com/eringen/blogreader/contentapi"
	"github.com/eringen/blogreader/highlight"
	"github.com/eringen/blogreader/markdown"
	"github.com/eringen/blogreader/views"
)

const (
	cardImageWidth    = 600
	heroImageWidth    = 800
	sectionImageWidth = 600
)

func (a *App) listing(posts []contentapi.Post, query string) views.Listing {
	cards := make([]views.PostCard, 0, len(posts))
	for _, p := range posts {
		chips := make([]string, 0, len(p.Subtopics))
		for _, s := range p.Subtopics {
			chips = append(chips, s.Title)
		}
		cards = append(cards, views.PostCard{
			Title:       p.Title,
			Description: p.Description,
			Image:       a.imageSrc(p.CardImage(), cardImageWidth),
			Date:        views.FormatDate(p.CreatedAt),
			URL:         views.PostURL(p.Slug),
			Chips:       chips,
		})
	}
	return views.Listing{Query: query, Cards: cards}
}

// article builds the detail view of post. Subtopics keep the API's order.
func (a *App) article(post contentapi.Post, visitor string) views.Article {
	sections := make([]views.Section, 0, len(post.Subtopics))
	for _, s := range post.Subtopics {
		sec := views.Section{
			ID:      s.ID,
			Title:   s.Title,
			Content: markdown.Render(s.Content),
			Image:   a.imageSrc(s.Image, sectionImageWidth),
		}
		if s.Code != "" {
			sec.HasCode = true
			sec.LanguageLabel = highlight.Label(s.CodeLanguage)
			sec.LanguageClass = highlight.Class(s.CodeLanguage)
			sec.Code = highlight.Code(s.Code, s.CodeLanguage)
			sec.CopyURL = copyURL(post.Slug, s.ID)
			if visitor != "" {
				if left := a.Copies.Remaining(visitor, s.ID); left > 0 {
					sec.Copied = true
					sec.CopiedForMS = left.Milliseconds()
				}
			}
		}
		sections = append(sections, sec)
	}
	return views.Article{
		Title:            post.Title,
		Description:      post.Description,
		Thumbnail:        a.imageSrc(post.Thumbnail, heroImageWidth),
		DescriptionImage: a.imageSrc(post.DescriptionImage, heroImageWidth),
		Date:             views.FormatDate(post.CreatedAt),
		DateISO:          post.CreatedAt,
		Sections:         sections,
	}
}

func copyURL(slug string, subtopicID int64) string {
	return "/blog/" + url.PathEscape(slug) + "/subtopics/" + strconv.FormatInt(subtopicID, 10) + "/copy/"
}
