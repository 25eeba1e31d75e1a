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

type AuthenHandler struct {
	authenService service.Authen
	validate      *validator.Validate
	jar           cookie.Jar
}

func NewAuthenHandler(e *echo.Echo, validate *validator.Validate, jar cookie.Jar, loginRateLimit int, authenService service.Authen) {
	handler := &AuthenHandler{
		authenService: authenService,
		validate:      validate,
		jar:           jar,
	}

	throttle := httpmiddleware.Throttle(loginRateLimit)

	route := e.Group("/auth")
	route.POST("/login", handler.login, throttle)
	route.POST("/signup", handler.signup, throttle)
	route.POST("/restore", handler.restore, throttle)
	route.POST("/logout", handler.logout)
	route.GET("/session", handler.session)
}

func (h *AuthenHandler) login(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	session, err := h.authenService.Login(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	h.jar.Set(c, session.Token)
	return c.JSON(http.StatusOK, model.LoginResponse{Message: "Login successful", User: session.User})
}

func (h *AuthenHandler) signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.SignupRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	user, err := h.authenService.Signup(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully", "user": user})
}

func (h *AuthenHandler) session(c echo.Context) error {
	userProfile, err := profile.UseProfile(c.Request().Context())
	if err != nil {
		return errorResponse(c, model.ErrUnauthenticated)
	}

	return c.JSON(http.StatusOK, model.SessionResponse{User: userProfile.Identity, ImpersonatorID: userProfile.ImpersonatorID})
}

func (h *AuthenHandler) logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.authenService.Logout(ctx, cookie.Token(c)); err != nil {
		logger.Context(ctx).Error(err)
	}

	h.jar.Clear(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

func (h *AuthenHandler) restore(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.RestoreRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	session, err := h.authenService.Restore(ctx, req, cookie.Token(c), c.RealIP())
	if err != nil {
		return errorResponse(c, err)
	}

	h.jar.Set(c, session.Token)
	return c.JSON(http.StatusOK, echo.Map{"message": "Session restored", "user": session.User})
}
