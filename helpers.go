package modernblog

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL returns the browser link for a post. Posts are addressed by query
// parameter so the single-page client can resolve them.
func PostURL(base, id string) string {
	return BuildURL(base, "blog") + "?post=" + url.QueryEscape(id)
}

// pageParam reads the 1-based page query parameter. Anything missing or
// unparsable means page 1.
func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// listingFromQuery builds a Listing from the q, tag and page parameters.
func listingFromQuery(c echo.Context, pageSize int) *Listing {
	l := NewListing(pageSize)
	l.SetQuery(strings.TrimSpace(c.QueryParam("q")))
	l.SetTag(c.QueryParam("tag"))
	l.SetPage(pageParam(c))
	return l
}
