package modernblog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/eringen/modernblog/sanitize"
)

// Limits enforced on submitted post drafts.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MaxTags         = 10
	MaxTagLength    = 50
)

// FieldErrors maps a form field name to a message for the user.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid post: " + strings.Join(parts, "; ")
}

// CleanDraft trims and sanitizes every field of d. Title, author and tags go
// through sanitize.Text; content keeps its markup and goes through
// sanitize.HTML. Empty tags are dropped.
func CleanDraft(d NewPost) NewPost {
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = sanitize.Text(t); t != "" {
			tags = append(tags, t)
		}
	}
	return NewPost{
		Title:     sanitize.Text(d.Title),
		Content:   sanitize.HTML(d.Content),
		Author:    sanitize.Text(d.Author),
		Tags:      tags,
		Published: d.Published,
	}
}

// ValidatePost checks a cleaned draft. It returns nil when the draft can be
// saved.
func ValidatePost(d NewPost) FieldErrors {
	errs := FieldErrors{}
	switch title := strings.TrimSpace(d.Title); {
	case title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs["title"] = "Title must be at most 200 characters"
	}
	switch author := strings.TrimSpace(d.Author); {
	case author == "":
		errs["author"] = "Author is required"
	case utf8.RuneCountInString(author) > MaxAuthorLength:
		errs["author"] = "Author must be at most 100 characters"
	}
	if strings.TrimSpace(d.Content) == "" {
		errs["content"] = "Content is required"
	}
	if msg := validateTags(d.Tags); msg != "" {
		errs["tags"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateTags(tags []string) string {
	if len(tags) > MaxTags {
		return "At most 10 tags are allowed"
	}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if utf8.RuneCountInString(t) > MaxTagLength {
			return "Tags must be at most 50 characters"
		}
		if _, ok := seen[t]; ok {
			return "Duplicate tag: " + t
		}
		seen[t] = struct{}{}
	}
	return ""
}

// AddTag appends the trimmed tag unless it is empty or already present.
// It reports whether the tag was added; tags itself is never modified.
func AddTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags, false
	}
	for _, t := range tags {
		if t == tag {
			return tags, false
		}
	}
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, tag), true
}

// RemoveTag returns tags without tag.
func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
