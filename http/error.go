package http

import (
	"errors"
	"net/http"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{model.ErrUnauthenticated, http.StatusUnauthorized},
	{model.ErrInvalidCredentials, http.StatusUnauthorized},
	{model.ErrTokenRejected, http.StatusUnauthorized},
	{model.ErrForbidden, http.StatusForbidden},
	{model.ErrSignupRoleNotAllowed, http.StatusForbidden},
	{model.ErrNotFound, http.StatusNotFound},
	{model.ErrUserExists, http.StatusConflict},
	{model.ErrUnsupportedFormat, http.StatusBadRequest},
	{model.ErrSessionUnavailable, http.StatusServiceUnavailable},
}

// errorResponse answers with the status of the first known error in err's chain and
// hides anything else behind a 500.
func errorResponse(c echo.Context, err error) error {
	for _, known := range errorStatuses {
		if errors.Is(err, known.err) {
			return c.JSON(known.status, echo.Map{"error": known.err.Error()})
		}
	}

	logger.Context(c.Request().Context()).Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": http.StatusText(http.StatusInternalServerError)})
}
