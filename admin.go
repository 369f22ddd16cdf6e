package modernblog

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/modernblog/auth"
	"github.com/eringen/modernblog/editor"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expiresAt,omitzero"`
	CSRFToken     string    `json:"csrfToken"`
}

func (a *App) handleAdminSession(c echo.Context) error {
	s, ok := a.currentSession(c)
	if !ok {
		return Render(c, sessionResponse{CSRFToken: CsrfToken(c)})
	}
	return Render(c, sessionResponse{
		Authenticated: true,
		ExpiresAt:     s.ExpiresAt,
		CSRFToken:     CsrfToken(c),
	})
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return RenderError(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login request")
	}

	s, err := a.Auth.Check(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		a.loginLimiter.Record(ip)
		return RenderError(c, http.StatusUnauthorized, "Invalid username or password")
	case err != nil:
		// The client went away while the check was pending.
		return err
	}

	if err := a.Sessions.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := setAdminSession(c, s); err != nil {
		return err
	}
	a.loginLimiter.Reset(ip)
	c.Logger().Infof("admin login from %s", ip)

	return Render(c, sessionResponse{
		Authenticated: true,
		ExpiresAt:     s.ExpiresAt,
		CSRFToken:     CsrfToken(c),
	})
}

// handleAdminLogout always drops the caller's cookie, but only the admin
// holding the stored token can end the stored session.
func (a *App) handleAdminLogout(c echo.Context) error {
	if _, ok := a.currentSession(c); ok {
		if err := a.Sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return Render(c, sessionResponse{CSRFToken: CsrfToken(c)})
}

func (a *App) handleAdminListPosts(c echo.Context) error {
	l := listingFromQuery(c, AdminPageSize)
	all := a.Cache.All()
	return Render(c, newListResponse(l, l.Apply(all), AllTags(all)))
}

func (a *App) handleAdminGetPost(c echo.Context) error {
	post, ok := FindPost(c.Param("id"), a.Cache.All())
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return Render(c, post)
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	draft, err := bindDraft(c)
	if err != nil {
		return err
	}
	post := CreatePost(draft)
	err = a.mutate(func(posts []Post) ([]Post, error) {
		return PrependPost(post, posts), nil
	})
	if err != nil {
		return err
	}
	return RenderStatus(c, http.StatusCreated, post)
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	draft, err := bindDraft(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	var updated Post
	err = a.mutate(func(posts []Post) ([]Post, error) {
		existing, ok := FindPost(id, posts)
		if !ok {
			return nil, fmt.Errorf("update %s: %w", id, ErrPostNotFound)
		}
		updated = UpdatePost(existing, draft)
		return ReplacePost(updated, posts), nil
	})
	if err != nil {
		return err
	}
	return Render(c, updated)
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	id := c.Param("id")
	err := a.mutate(func(posts []Post) ([]Post, error) {
		if _, ok := FindPost(id, posts); !ok {
			return nil, fmt.Errorf("delete %s: %w", id, ErrPostNotFound)
		}
		return DeletePost(id, posts), nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindDraft decodes, cleans and validates a submitted post. Validation
// failures come back as FieldErrors, which the error handler renders as 422.
func bindDraft(c echo.Context) (NewPost, error) {
	var draft NewPost
	if err := c.Bind(&draft); err != nil {
		return NewPost{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid post data")
	}
	draft = CleanDraft(draft)
	if errs := ValidatePost(draft); errs != nil {
		return NewPost{}, errs
	}
	return draft, nil
}

// mutate runs one load-modify-save cycle on the stored post list. Only one
// cycle runs at a time. The cache is invalidated after a successful save.
func (a *App) mutate(fn func([]Post) ([]Post, error)) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	next, err := fn(a.Repo.Load())
	if err != nil {
		return err
	}
	if err := a.Repo.Save(next); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// editorRequest is one reducer step: the editor state and the command to
// apply to it.
type editorRequest struct {
	State   editor.State  `json:"state"`
	Command editorCommand `json:"command"`
}

type editorCommand struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
	Level   int    `json:"level,omitempty"`
	URL     string `json:"url,omitempty"`
	HTML    string `json:"html,omitempty"`
}

var errUnknownCommand = errors.New("unknown editor command")

func (ec editorCommand) command() (editor.Command, error) {
	switch ec.Type {
	case "insertText":
		return editor.InsertText{Text: ec.Text}, nil
	case "setContent":
		return editor.SetContent{Content: ec.Content}, nil
	case "bold":
		return editor.Bold{}, nil
	case "italic":
		return editor.Italic{}, nil
	case "underline":
		return editor.Underline{}, nil
	case "heading":
		return editor.Heading{Level: ec.Level}, nil
	case "bulletList":
		return editor.BulletList{}, nil
	case "link":
		return editor.Link{URL: ec.URL}, nil
	case "insertImage":
		return editor.InsertImage{HTML: ec.HTML}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCommand, ec.Type)
	}
}

func (a *App) handleEditorCommand(c echo.Context) error {
	var req editorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid editor request")
	}
	cmd, err := req.Command.command()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return Render(c, editor.Apply(req.State, cmd))
}
