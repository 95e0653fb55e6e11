package blogreader

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/assert"

	"github.com/eringen/blogreader/contentapi"
)

func titles(posts []contentapi.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestFilterPostsEmptyQueryReturnsAll(t *testing.T) {
	posts := fakePosts()
	assert.Equal(t, posts, FilterPosts(posts, ""))
}

func TestFilterPostsMatchesTitleOrDescription(t *testing.T) {
	posts := []contentapi.Post{
		{Title: "Intro to Caching", Description: "hot data"},
		{Title: "Go channels", Description: "A CACHE of goroutines"},
		{Title: "Rust lifetimes"},
		{Title: "caching, again"},
	}

	got := FilterPosts(posts, "cach")
	assert.Equal(t, []string{"Intro to Caching", "Go channels", "caching, again"}, titles(got))
}

func TestFilterPostsIsCaseInsensitive(t *testing.T) {
	posts := []contentapi.Post{{Title: "Intro to caching"}}
	assert.Len(t, FilterPosts(posts, "INTRO TO"), 1)
}

func TestFilterPostsNoMatch(t *testing.T) {
	got := FilterPosts(fakePosts(), "zzzz-no-such-text")
	assert.Empty(t, got)
}

func TestFilterPostsWhitespaceIsAQuery(t *testing.T) {
	posts := []contentapi.Post{{Title: "single"}, {Title: "two words"}}
	assert.Equal(t, []string{"two words"}, titles(FilterPosts(posts, " ")))
}

// The result is exactly the ordered subsequence of matching posts.
func TestFilterPostsIsOrderedSubsequence(t *testing.T) {
	gofakeit.Seed(7)
	var posts []contentapi.Post
	for i := 0; i < 50; i++ {
		posts = append(posts, contentapi.Post{
			ID:          int64(i),
			Title:       gofakeit.Sentence(3),
			Description: gofakeit.Sentence(6),
		})
	}
	for i := 0; i < 20; i++ {
		q := gofakeit.Word()
		if len(q) > 2 {
			q = q[:2]
		}
		q = strings.ToUpper(q)
		got := FilterPosts(posts, q)

		var want []int64
		for _, p := range posts {
			lq := strings.ToLower(q)
			if strings.Contains(strings.ToLower(p.Title), lq) || strings.Contains(strings.ToLower(p.Description), lq) {
				want = append(want, p.ID)
			}
		}
		var ids []int64
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, want, ids, "query %q", q)
	}
}
