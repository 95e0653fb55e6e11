package contentapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailJSON = `{
  "id": 7,
  "title": "Intro to caching",
  "description": null,
  "thumbnail": "/media/thumb.png",
  "description_image": "https://cdn/desc.png",
  "slug": "intro-to-caching",
  "created_at": "2025-03-01T10:00:00Z",
  "subtopics": [
    {"id": 3, "title": "Third", "content": "c", "order": 3},
    {"id": 1, "title": "First", "content": "a", "order": 1, "code": "print(1)", "code_language": "python"},
    {"id": 2, "title": "Second", "content": "b", "order": 2, "image": "media/two.png"}
  ]
}`

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestGetPostDecodesAndResolvesMedia(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detailJSON))
	})

	post, err := c.GetPost(context.Background(), "intro-to-caching")
	require.NoError(t, err)

	assert.Equal(t, "/api/blogs/intro-to-caching/", gotPath)
	assert.Equal(t, "Intro to caching", post.Title)
	assert.Empty(t, post.Description)
	assert.Equal(t, c.BaseURL()+"/media/thumb.png", post.Thumbnail)
	assert.Equal(t, "https://cdn/desc.png", post.DescriptionImage)
	require.Len(t, post.Subtopics, 3)
	assert.Equal(t, c.BaseURL()+"/media/two.png", post.Subtopics[2].Image)
}

func TestGetPostKeepsDeliveredSubtopicOrder(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailJSON))
	})

	post, err := c.GetPost(context.Background(), "intro-to-caching")
	require.NoError(t, err)

	var ids []int64
	for _, s := range post.Subtopics {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestGetPostNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetPost(context.Background(), "xyz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostEmptySlug(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	})

	_, err := c.GetPost(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostEscapesSlug(t *testing.T) {
	var gotRaw string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.EscapedPath()
		w.Write([]byte(`{"slug":"a b"}`))
	})

	_, err := c.GetPost(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/blogs/a%20b/", gotRaw)
}

func TestListPostsServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListPosts(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestListPostsMalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"`))
	})

	_, err := c.ListPosts(context.Background())
	assert.Error(t, err)
}

func TestListPosts(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs/", r.URL.Path)
		w.Write([]byte(`[{"id":1,"title":"A","slug":"a","image":"/media/a.png"},{"id":2,"title":"B","slug":"b"}]`))
	})

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "a", posts[0].Slug)
	assert.Equal(t, c.BaseURL()+"/media/a.png", posts[0].CardImage())
	assert.Empty(t, posts[1].CardImage())
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	_, err = New("ftp://example.com")
	assert.Error(t, err)
}

func TestTimeoutAppliesInAnyOptionOrder(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c, err := New("http://api.example.com", WithTimeout(3*time.Second), WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.Equal(t, time.Minute, shared.Timeout, "the caller's client is left alone")

	c, err = New("http://api.example.com", WithHTTPClient(shared), WithTimeout(0))
	require.NoError(t, err)
	assert.Zero(t, c.http.Timeout)
}

func TestNilHTTPClientIsIgnored(t *testing.T) {
	c, err := New("http://api.example.com", WithHTTPClient(nil), WithTimeout(2*time.Second))
	require.NoError(t, err)
	require.NotNil(t, c.http)
	assert.Equal(t, 2*time.Second, c.http.Timeout)
}

func TestResolveURL(t *testing.T) {
	c, err := New("http://api.example.com/")
	require.NoError(t, err)

	assert.Equal(t, "", c.ResolveURL(""))
	assert.Equal(t, "https://cdn/x.png", c.ResolveURL("https://cdn/x.png"))
	assert.Equal(t, "http://api.example.com/media/x.png", c.ResolveURL("/media/x.png"))
}
