package httpmiddleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/ratelimit"
)

// Throttle paces requests through a shared leaky bucket. A rate of zero or less disables it.
func Throttle(rate int) echo.MiddlewareFunc {
	if rate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	limiter := ratelimit.New(rate, ratelimit.Per(time.Second), ratelimit.WithSlack(rate))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter.Take()
			return next(c)
		}
	}
}
