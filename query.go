package modernblog

import (
	"sort"
	"strings"
)

// Page sizes used by the two views of the post list.
const (
	VisitorPageSize = 9
	AdminPageSize   = 6
)

// maxPageLinks is how many consecutive page numbers PageNumbers shows.
const maxPageLinks = 5

// Visible filters posts by a free-text query and a tag. The query matches
// title, content or author case-insensitively; the tag must be one of the
// post's tags exactly. Empty filters are skipped and input order is kept.
// With both filters empty, posts itself is returned.
func Visible(posts []Post, query, tag string) []Post {
	if query == "" && tag == "" {
		return posts
	}
	q := strings.ToLower(query)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p Post, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Content), lowered) ||
		strings.Contains(strings.ToLower(p.Author), lowered)
}

func hasTag(p Post, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PublishedOnly drops drafts. Visitors only ever see its result.
func PublishedOnly(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

// Paginate returns the 1-based page of posts holding pageSize items.
// Pages past the end are empty; a page below 1 is treated as 1 and a
// non-positive pageSize yields an empty result with no pages.
func Paginate(posts []Post, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return Page{Items: []Post{}, Number: page, TotalItems: len(posts)}
	}
	totalPages := len(posts) / pageSize
	if len(posts)%pageSize != 0 {
		totalPages++
	}
	items := []Post{}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := min(start+pageSize, len(posts))
		items = make([]Post, end-start)
		copy(items, posts[start:end])
	}
	return Page{
		Items:      items,
		Number:     page,
		TotalPages: totalPages,
		TotalItems: len(posts),
	}
}

// AllTags returns the sorted set of every tag used by posts.
func AllTags(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// PageNumbers lays out the links of a pagination control: up to five
// consecutive pages starting two before current, with the first and last
// page and gap markers added around the window when it does not reach them.
// A single page needs no control, so total <= 1 yields nil.
func PageNumbers(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	var links []PageLink
	if total <= maxPageLinks {
		for i := 1; i <= total; i++ {
			links = append(links, PageLink{Number: i})
		}
		return links
	}
	current = min(max(current, 1), total)
	start := max(1, current-maxPageLinks/2)
	end := min(total, start+maxPageLinks-1)
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Number: i})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: total})
	}
	return links
}

// Listing is the filter and page state behind one post list view.
// Changing the query or the tag sends the view back to page 1, so a page
// number never outlives the filter it was chosen under.
type Listing struct {
	query    string
	tag      string
	page     int
	pageSize int
}

// NewListing returns an unfiltered listing on page 1.
func NewListing(pageSize int) *Listing {
	return &Listing{page: 1, pageSize: pageSize}
}

// SetQuery changes the search query, resetting the page if it differs.
func (l *Listing) SetQuery(q string) {
	if q != l.query {
		l.query = q
		l.page = 1
	}
}

// SetTag changes the tag filter, resetting the page if it differs.
func (l *Listing) SetTag(tag string) {
	if tag != l.tag {
		l.tag = tag
		l.page = 1
	}
}

// SetPage moves to page, which is clamped to at least 1.
func (l *Listing) SetPage(page int) {
	l.page = max(page, 1)
}

// Query returns the current search query.
func (l *Listing) Query() string { return l.query }

// Tag returns the current tag filter.
func (l *Listing) Tag() string { return l.tag }

// Page returns the current 1-based page.
func (l *Listing) Page() int { return l.page }

// Apply filters posts and returns the current page of the result.
func (l *Listing) Apply(posts []Post) Page {
	return Paginate(Visible(posts, l.query, l.tag), l.page, l.pageSize)
}
