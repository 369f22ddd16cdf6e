package modernblog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/modernblog/storage"
)

// PostsKey is the storage key holding the JSON array of every post.
const PostsKey = "modernblog_posts"

// Repository loads and saves the complete post list as one serialized value
// in a storage slot. All mutation happens on in-memory slices through the
// pure functions in posts.go; Save commits the result.
type Repository struct {
	slot   storage.Slot
	logger echo.Logger
}

// NewRepository returns a Repository over slot. A nil logger gets a
// default one with the "repository" prefix.
func NewRepository(slot storage.Slot, logger echo.Logger) *Repository {
	if logger == nil {
		logger = log.New("repository")
	}
	return &Repository{slot: slot, logger: logger}
}

// Load returns the persisted posts. When nothing has been saved yet, or the
// stored value cannot be read or parsed, it logs the cause and returns the
// sample posts instead; it never fails.
func (r *Repository) Load() []Post {
	raw, err := r.slot.Get(PostsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Errorf("load posts: %v", err)
		}
		return SamplePosts()
	}
	posts, err := decodePosts(raw)
	if err != nil {
		r.logger.Errorf("load posts: %v", err)
		return SamplePosts()
	}
	return posts
}

// Save overwrites the stored list with posts in a single write. Write
// failures are wrapped and returned; nothing is retried.
func (r *Repository) Save(posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := r.slot.Set(PostsKey, string(b)); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

func decodePosts(raw string) ([]Post, error) {
	var posts []Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	if posts == nil {
		return nil, errors.New("decode posts: stored value is not a list")
	}
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return posts, nil
}
