package blogreader

import (
	"strings"

	"github.com/eringen/blogreader/contentapi"
)

// FilterPosts returns the posts whose title or description contains query,
// ignoring case, in their original order. An empty query returns posts
// unchanged.
func FilterPosts(posts []contentapi.Post, query string) []contentapi.Post {
	if query == "" {
		return posts
	}
	q := strings.ToLower(query)
	filtered := make([]contentapi.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			(p.Description != "" && strings.Contains(strings.ToLower(p.Description), q)) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
