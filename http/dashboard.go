package http

import (
	"net/http"

	httpmiddleware "github.com/kinkando/school-portal-service/pkg/http/middleware"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	dashboardService service.Dashboard
}

func NewDashboardHandler(e *echo.Echo, dashboardService service.Dashboard) {
	handler := &DashboardHandler{
		dashboardService: dashboardService,
	}

	e.GET("/teacher/dashboard", handler.teacherDashboard, httpmiddleware.RequireRole(profile.Teacher))
	e.GET("/student/dashboard", handler.studentDashboard, httpmiddleware.RequireRole(profile.Student))

	e.GET(httpmiddleware.LoginPage, page("login"))
	e.GET("/register", page("register"))
}

func (h *DashboardHandler) teacherDashboard(c echo.Context) error {
	data, err := h.dashboardService.TeacherDashboard(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) studentDashboard(c echo.Context) error {
	data, err := h.dashboardService.StudentDashboard(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

// page stands in for a page rendered by the front end; the route guard only lets anonymous callers reach it.
func page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"page": name})
	}
}
