package httpmiddleware

import (
	"github.com/kinkando/school-portal-service/pkg/generator"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, res := c.Request(), c.Response()
		requestID := req.Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = generator.UUID()
		}
		res.Header().Set(echo.HeaderXRequestID, requestID)
		c.Set("requestID", requestID)

		ctx := logger.WithRequestID(req.Context(), requestID)
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}
