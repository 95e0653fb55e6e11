package blogreader

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/blogreader/contentapi"
	"github.com/eringen/blogreader/loadstate"
)

// PostSource is anything that can read posts: the Content API client or
// the cache in front of it.
type PostSource interface {
	ListPosts(ctx context.Context) ([]contentapi.Post, error)
	GetPost(ctx context.Context, slug string) (contentapi.Post, error)
}

// PostCache is an in-memory TTL cache in front of a PostSource. Each read
// goes through a loadstate.Tracker, so when two fetches for the same key
// overlap only the one issued last is stored. Errors are never cached.
type PostCache struct {
	source PostSource
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	list  *loadstate.Tracker[[]contentapi.Post]
	posts map[string]*loadstate.Tracker[contentapi.Post]
}

// NewPostCache creates a PostCache. A negative ttl disables caching.
func NewPostCache(src PostSource, ttl time.Duration) *PostCache {
	return &PostCache{
		source: src,
		ttl:    ttl,
		now:    time.Now,
		list:   loadstate.New[[]contentapi.Post](),
		posts:  make(map[string]*loadstate.Tracker[contentapi.Post]),
	}
}

func (c *PostCache) fresh(loadedAt time.Time) bool {
	return c.ttl > 0 && !loadedAt.IsZero() && c.now().Sub(loadedAt) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.Reset()
	for _, t := range c.posts {
		t.Reset()
	}
	c.posts = make(map[string]*loadstate.Tracker[contentapi.Post])
}

// ListPosts returns every post, from cache when fresh.
func (c *PostCache) ListPosts(ctx context.Context) ([]contentapi.Post, error) {
	if snap := c.list.Snapshot(); c.fresh(snap.LoadedAt) {
		return snap.Value, nil
	}
	tok := c.list.Begin()
	posts, err := c.source.ListPosts(ctx)
	c.list.Resolve(tok, posts, err)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *PostCache) tracker(slug string) *loadstate.Tracker[contentapi.Post] {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.posts[slug]
	if !ok {
		t = loadstate.New[contentapi.Post]()
		c.posts[slug] = t
	}
	return t
}

// GetPost returns a single post by slug, from cache when fresh.
func (c *PostCache) GetPost(ctx context.Context, slug string) (contentapi.Post, error) {
	t := c.tracker(slug)
	if snap := t.Snapshot(); c.fresh(snap.LoadedAt) {
		return snap.Value, nil
	}
	tok := t.Begin()
	post, err := c.source.GetPost(ctx, slug)
	t.Resolve(tok, post, err)
	if err != nil {
		return contentapi.Post{}, err
	}
	return post, nil
}
