package http

import (
	"net/http"

	"github.com/kinkando/school-portal-service/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.User
}

func NewUserHandler(e *echo.Echo, userService service.User) {
	handler := &UserHandler{
		userService: userService,
	}

	route := e.Group("/user")
	route.GET("", handler.getUser)
}

func (h *UserHandler) getUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetUserInfo(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
