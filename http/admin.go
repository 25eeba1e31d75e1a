package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/http/cookie"
	httpmiddleware "github.com/kinkando/school-portal-service/pkg/http/middleware"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/service"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	authenService    service.Authen
	userService      service.User
	dashboardService service.Dashboard
	validate         *validator.Validate
	jar              cookie.Jar
}

func NewAdminHandler(
	e *echo.Echo,
	validate *validator.Validate,
	jar cookie.Jar,
	authenService service.Authen,
	userService service.User,
	dashboardService service.Dashboard,
) {
	handler := &AdminHandler{
		authenService:    authenService,
		userService:      userService,
		dashboardService: dashboardService,
		validate:         validate,
		jar:              jar,
	}

	route := e.Group("/admin", httpmiddleware.RequireRole(profile.Admin))
	route.POST("/impersonate", handler.impersonate)
	route.GET("/dashboard", handler.dashboard)
	route.GET("/users", handler.getUsers)
	route.POST("/users", handler.registerUser)
	route.GET("/users/export", handler.exportUsers)
}

func (h *AdminHandler) impersonate(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.ImpersonateRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	session, err := h.authenService.Impersonate(ctx, req, c.RealIP())
	if err != nil {
		return errorResponse(c, err)
	}

	h.jar.Set(c, session.Token)
	return c.JSON(http.StatusOK, session)
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.dashboardService.AdminDashboard(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, data)
}

func (h *AdminHandler) getUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.GetUsersRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	users, err := h.userService.GetUsers(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) registerUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	user, err := h.userService.RegisterUser(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "user": user})
}

func (h *AdminHandler) exportUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.ExportUsersRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	file, err := h.userService.ExportUsers(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
