package middleware

import (
	"strconv"

	"github.com/jmehdipour/custdir/internal/metrics"
	echo "github.com/labstack/echo/v4"
)

// Metrics counts requests by route pattern, method and final status code. Handler errors are
// rendered here so the recorded code is the one sent.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Path(),
				c.Request().Method,
				strconv.Itoa(c.Response().Status),
			).Inc()
			return err
		}
	}
}
