package modernblog

import (
	"sync"
	"time"
)

// PostCache keeps the last loaded post list in memory with a TTL so read
// handlers do not decode the stored blob on every request. Writers call
// Invalidate after each Save.
type PostCache struct {
	mu        sync.RWMutex
	posts     []Post
	published []Post
	tags      []string
	fetched   time.Time
	ttl       time.Duration
	repo      *Repository
}

// NewPostCache creates a PostCache backed by repo.
func NewPostCache(repo *Repository, ttl time.Duration) *PostCache {
	return &PostCache{repo: repo, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.published = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load() {
	if c.valid() {
		return
	}
	posts := c.repo.Load()
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.published = PublishedOnly(posts)
	c.tags = AllTags(c.published)
	c.fetched = time.Now()
}

// snapshot returns the cached lists after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
// Callers must treat the returned slices as read-only.
func (c *PostCache) snapshot() (all, published []Post, tags []string) {
	c.mu.RLock()
	if c.valid() {
		all, published, tags = c.posts, c.published, c.tags
		c.mu.RUnlock()
		return all, published, tags
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.posts, c.published, c.tags
}

// All returns every post, drafts included, newest first.
func (c *PostCache) All() []Post {
	all, _, _ := c.snapshot()
	return all
}

// Published returns the posts visitors may see.
func (c *PostCache) Published() []Post {
	_, published, _ := c.snapshot()
	return published
}

// PublishedTags returns the sorted tags of published posts.
func (c *PostCache) PublishedTags() []string {
	_, _, tags := c.snapshot()
	return tags
}

// GetPublished returns a published post by id.
func (c *PostCache) GetPublished(id string) (Post, bool) {
	return FindPost(id, c.Published())
}
