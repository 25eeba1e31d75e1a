package httpmiddleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/http/cookie"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/labstack/echo/v4"
)

const LoginPage = "/login"

// Access is the outcome of matching a request against the route policy.
type Access int

const (
	Public Access = iota
	ProtectedUnauthenticated
	ProtectedWrongRole
	ProtectedAuthorized
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case ProtectedUnauthenticated:
		return "protected-unauthenticated"
	case ProtectedWrongRole:
		return "protected-wrong-role"
	case ProtectedAuthorized:
		return "protected-authorized"
	default:
		return "unknown"
	}
}

type GuardConfig struct {
	// PublicPages are reachable only without a session; a signed-in user is sent to their dashboard.
	PublicPages []string
	// OpenPaths bypass the guard together with everything below them.
	OpenPaths []string
	Cookie    cookie.Jar
}

var DefaultGuardConfig = GuardConfig{
	PublicPages: []string{LoginPage, "/register"},
	OpenPaths:   []string{"/auth", "/livez", "/readyz"},
}

type routeGuard struct {
	publicPages []string
	openPaths   []string
	jar         cookie.Jar
}

func NewRouteGuard(cfg GuardConfig) echo.MiddlewareFunc {
	g := &routeGuard{publicPages: cfg.PublicPages, openPaths: cfg.OpenPaths, jar: cfg.Cookie}
	return g.handle
}

// underPath is a segment-aware prefix match: /admin covers /admin and /admin/x but not /administrator.
func underPath(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func requiredRole(p string) (profile.Role, bool) {
	for _, role := range profile.Roles() {
		if underPath(p, role.Namespace()) {
			return role, true
		}
	}
	return "", false
}

func (g *routeGuard) isPublicPage(p string) bool {
	for _, page := range g.publicPages {
		if p == page {
			return true
		}
	}
	return false
}

func (g *routeGuard) isOpen(p string) bool {
	for _, prefix := range g.openPaths {
		if underPath(p, prefix) {
			return true
		}
	}
	return false
}

// Classify decides the access state of a path for the given session.
func (g *routeGuard) Classify(rawPath string, userProfile profile.Profile, authenticated bool) Access {
	p := path.Clean("/" + rawPath)
	if g.isPublicPage(p) || g.isOpen(p) {
		return Public
	}
	if !authenticated {
		return ProtectedUnauthenticated
	}
	if role, ok := requiredRole(p); ok && role != userProfile.Role {
		return ProtectedWrongRole
	}
	return ProtectedAuthorized
}

func wantsHTML(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

func (g *routeGuard) handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		p := path.Clean("/" + req.URL.Path)

		userProfile, err := profile.UseProfile(ctx)
		authenticated := err == nil

		switch g.Classify(p, userProfile, authenticated) {
		case Public:
			if g.isPublicPage(p) {
				if authenticated {
					return c.Redirect(http.StatusFound, userProfile.Role.Dashboard())
				}
				if hasStaleCookie(c) {
					g.jar.Clear(c)
				}
			}
			return next(c)

		case ProtectedUnauthenticated:
			if hasStaleCookie(c) {
				g.jar.Clear(c)
			}
			if wantsHTML(req) {
				return c.Redirect(http.StatusFound, LoginPage)
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": model.ErrUnauthenticated.Error()})

		case ProtectedWrongRole:
			logger.Context(ctx).Warnf("%s %s denied %s %s", userProfile.Role, userProfile.ID, req.Method, p)
			if wantsHTML(req) {
				return c.Redirect(http.StatusFound, userProfile.Role.Dashboard())
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": model.ErrForbidden.Error()})

		case ProtectedAuthorized:
			return next(c)

		default:
			return c.JSON(http.StatusForbidden, echo.Map{"error": model.ErrForbidden.Error()})
		}
	}
}
