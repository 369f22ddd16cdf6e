package modernblog

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// listResponse is a page of posts plus what the client needs to draw its
// filter and pagination controls.
type listResponse struct {
	Page
	Query string     `json:"query"`
	Tag   string     `json:"tag"`
	Links []PageLink `json:"links"`
	Tags  []string   `json:"tags"`
}

func newListResponse(l *Listing, page Page, tags []string) listResponse {
	links := PageNumbers(page.Number, page.TotalPages)
	if links == nil {
		links = []PageLink{}
	}
	return listResponse{
		Page:  page,
		Query: l.Query(),
		Tag:   l.Tag(),
		Links: links,
		Tags:  tags,
	}
}

func (a *App) handleListPosts(c echo.Context) error {
	l := listingFromQuery(c, VisitorPageSize)
	page := l.Apply(a.Cache.Published())
	return Render(c, newListResponse(l, page, a.Cache.PublishedTags()))
}

func (a *App) handleGetPost(c echo.Context) error {
	post, ok := a.Cache.GetPublished(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return Render(c, post)
}

func (a *App) handleListTags(c echo.Context) error {
	return Render(c, a.Cache.PublishedTags())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Published())
}
