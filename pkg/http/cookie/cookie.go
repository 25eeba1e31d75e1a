package cookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const Name = "token"

// Jar writes the session cookie with one fixed set of attributes.
type Jar struct {
	Secure bool
	MaxAge time.Duration
}

func (j Jar) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j Jar) Set(c echo.Context, token string) {
	ck := j.cookie(token)
	ck.MaxAge = int(j.MaxAge.Seconds())
	ck.Expires = time.Now().Add(j.MaxAge)
	c.SetCookie(ck)
}

func (j Jar) Clear(c echo.Context) {
	ck := j.cookie("")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}

func Token(c echo.Context) string {
	ck, err := c.Cookie(Name)
	if err != nil {
		return ""
	}
	return ck.Value
}
