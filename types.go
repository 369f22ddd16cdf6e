package modernblog

import "time"

// Post is a blog entry as persisted in the storage slot and served to the UI.
// Excerpt is derived from Content on every create and update.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
}

// NewPost is the editable part of a Post, as submitted by the post form.
type NewPost struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// Page is one slice of a filtered post list.
type Page struct {
	Items      []Post `json:"items"`
	Number     int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	TotalItems int    `json:"totalItems"`
}

// PageLink is one entry of a pagination control: a page number, or a gap
// marker standing for skipped pages.
type PageLink struct {
	Number int  `json:"number,omitempty"`
	Gap    bool `json:"gap,omitempty"`
}
