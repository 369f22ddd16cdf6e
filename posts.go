package modernblog

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// ExcerptLength is the number of characters of content kept in an excerpt.
	ExcerptLength = 150
	// ExcerptEllipsis marks a truncated excerpt.
	ExcerptEllipsis = "…"
)

// clock is replaced in tests.
var clock = time.Now

// ErrPostNotFound is returned when an id names no stored post.
var ErrPostNotFound = errors.New("post not found")

// GenerateID returns a new post id: the base-36 creation time in
// milliseconds followed by a random suffix. Collisions are not impossible,
// only unlikely.
func GenerateID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return strconv.FormatInt(clock().UnixMilli(), 36) + suffix
}

// Excerpt returns content unchanged when it has at most ExcerptLength
// characters, otherwise its first ExcerptLength characters plus the ellipsis.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}
	return string([]rune(content)[:ExcerptLength]) + ExcerptEllipsis
}

// CreatePost builds a new Post from draft with a fresh id, both timestamps
// set to now, and a computed excerpt. It does not persist anything: callers
// prepend the result to their list and Save it.
func CreatePost(draft NewPost) Post {
	now := clock()
	return Post{
		ID:        GenerateID(),
		Title:     draft.Title,
		Content:   draft.Content,
		Excerpt:   Excerpt(draft.Content),
		Author:    draft.Author,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      cloneTags(draft.Tags),
		Published: draft.Published,
	}
}

// UpdatePost returns a copy of existing with every editable field replaced by
// changes. The id and creation time are kept; the excerpt and update time are
// recomputed. existing is not modified.
func UpdatePost(existing Post, changes NewPost) Post {
	now := clock()
	if now.Before(existing.CreatedAt) {
		now = existing.CreatedAt
	}
	return Post{
		ID:        existing.ID,
		Title:     changes.Title,
		Content:   changes.Content,
		Excerpt:   Excerpt(changes.Content),
		Author:    changes.Author,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: now,
		Tags:      cloneTags(changes.Tags),
		Published: changes.Published,
	}
}

// DeletePost returns posts without the post with the given id. If no post
// matches, posts itself is returned.
func DeletePost(id string, posts []Post) []Post {
	idx := indexOf(id, posts)
	if idx < 0 {
		return posts
	}
	out := make([]Post, 0, len(posts)-1)
	out = append(out, posts[:idx]...)
	return append(out, posts[idx+1:]...)
}

// ReplacePost returns a new list where the post sharing updated's id is
// swapped for updated, in place. If no post matches, posts itself is returned.
func ReplacePost(updated Post, posts []Post) []Post {
	idx := indexOf(updated.ID, posts)
	if idx < 0 {
		return posts
	}
	out := make([]Post, len(posts))
	copy(out, posts)
	out[idx] = updated
	return out
}

// PrependPost returns a new list with p first, so lists stay newest-first.
func PrependPost(p Post, posts []Post) []Post {
	out := make([]Post, 0, len(posts)+1)
	out = append(out, p)
	return append(out, posts...)
}

// FindPost returns the post with the given id.
func FindPost(id string, posts []Post) (Post, bool) {
	idx := indexOf(id, posts)
	if idx < 0 {
		return Post{}, false
	}
	return posts[idx], true
}

func indexOf(id string, posts []Post) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
