package echoapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

const flashCookieName = "flash"

// setFlash stores a short-lived, human-readable message surfaced on the next
// page render after a redirect.
func setFlash(ctx echo.Context, msg string) {
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(ctx echo.Context) string {
	cookie, err := ctx.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		msg = ""
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return msg
}

// isStructuredRequest reports whether the caller wants a machine-readable
// response instead of a redirect.
func isStructuredRequest(ctx echo.Context) bool {
	return ctx.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
