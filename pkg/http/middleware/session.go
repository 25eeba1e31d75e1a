package httpmiddleware

import (
	"context"
	"net/http"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/http/cookie"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/labstack/echo/v4"
)

// staleCookieKey marks requests whose token cookie did not resolve to a session.
const staleCookieKey = "staleSessionCookie"

type SessionReader interface {
	GetSession(ctx context.Context, token string) (profile.Profile, bool, error)
}

// NewSessionProvider resolves the token cookie once per request and stores the
// profile in the request context. Access decisions belong to RouteGuard; the provider
// only answers 503 when the session store cannot tell whether the cookie is valid.
func NewSessionProvider(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Token(c)
			if token == "" {
				return next(c)
			}

			req := c.Request()
			userProfile, ok, err := sessions.GetSession(req.Context(), token)
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": model.ErrSessionUnavailable.Error()})
			}
			if !ok {
				c.Set(staleCookieKey, true)
				return next(c)
			}

			c.SetRequest(req.WithContext(profile.WithProfile(req.Context(), userProfile)))
			return next(c)
		}
	}
}

func hasStaleCookie(c echo.Context) bool {
	stale, _ := c.Get(staleCookieKey).(bool)
	return stale
}
