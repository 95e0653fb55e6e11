package blogreader

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogreader/contentapi"
)

const testSecret = "test-secret-0123456789abcdef"

// fakeAPI is an in-memory Content API.
type fakeAPI struct {
	mu       sync.Mutex
	posts    []contentapi.Post
	failList bool
	lists    int
	gets     int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/api/blogs/")
	if path == r.URL.Path {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if path == "" {
		f.lists++
		if f.failList {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(f.posts)
		return
	}
	f.gets++
	slug := strings.TrimSuffix(path, "/")
	for _, p := range f.posts {
		if p.Slug == slug {
			json.NewEncoder(w).Encode(p)
			return
		}
	}
	http.NotFound(w, r)
}

func cachingPost() contentapi.Post {
	return contentapi.Post{
		ID:          1,
		Title:       "Intro to caching",
		Description: "Keep hot data close",
		Thumbnail:   "https://cdn/x.png",
		Slug:        "intro-to-caching",
		CreatedAt:   "2025-03-01T10:00:00Z",
		Subtopics: []contentapi.Subtopic{
			{ID: 11, Title: "Why cache", Content: "Latency matters.", Order: 1},
			{ID: 12, Title: "A snippet", Content: "Try this:", Code: "print(1)", CodeLanguage: "python", Order: 2},
			{ID: 13, Title: "Rusty", Content: "Or this:", Code: "fn main() {}", CodeLanguage: "rust", Order: 3, Image: "https://cdn/s.png"},
		},
	}
}

func fakePosts() []contentapi.Post {
	gofakeit.Seed(42)
	posts := []contentapi.Post{cachingPost()}
	for i := 2; i <= 4; i++ {
		posts = append(posts, contentapi.Post{
			ID:          int64(i),
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			Slug:        "post-" + string(rune('a'+i)),
			CreatedAt:   "2025-01-0" + string(rune('0'+i)) + "T08:00:00Z",
		})
	}
	return posts
}

func newFakeAPI(t *testing.T, posts []contentapi.Post) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{posts: posts}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv
}

func testConfig(apiURL string) SiteConfig {
	return SiteConfig{
		Name:          "Blog",
		URL:           "https://blog.example.com",
		Description:   "A test blog",
		Twitter:       "@blog",
		APIURL:        apiURL,
		SessionSecret: testSecret,
		CacheTTL:      -1,
		LogLevel:      "off",
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(a.mediaLimiter.Stop)
	return a
}

// browser drives an App through its full middleware stack, keeping cookies
// between requests.
type browser struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
	headers http.Header
}

func newBrowser(t *testing.T, a *App) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}, headers: http.Header{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range b.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	if method != http.MethodGet {
		if c, ok := b.cookies["_csrf"]; ok {
			req.Header.Set("X-CSRF-Token", c.Value)
		}
	}
	rec := httptest.NewRecorder()
	b.app.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, target, form)
}

func (f *fakeAPI) counts() (lists, gets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.gets
}
