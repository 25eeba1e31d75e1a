package httpmiddleware

import (
	"net/http"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/labstack/echo/v4"
)

// RequireRole gates a route group on the session role independently of the route guard's path policy.
func RequireRole(roles ...profile.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userProfile, err := profile.UseProfile(c.Request().Context())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": model.ErrUnauthenticated.Error()})
			}
			for _, role := range roles {
				if userProfile.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": model.ErrForbidden.Error()})
		}
	}
}
