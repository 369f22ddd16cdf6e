package modernblog

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields,omitempty"`
}

// Render writes v as an HTTP 200 JSON response.
func Render(c echo.Context, v any) error {
	return RenderStatus(c, http.StatusOK, v)
}

// RenderStatus writes v as JSON with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, v any) error {
	return c.JSON(code, v)
}

// RenderError writes a JSON error body with the given status.
func RenderError(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorBody{Error: msg})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		_ = c.JSON(http.StatusUnprocessableEntity, errorBody{Error: "Please fix the highlighted fields", Fields: fields})
		return
	}
	if errors.Is(err, ErrPostNotFound) {
		_ = RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = http.StatusText(code)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = RenderError(c, code, msg)
}
