package http

import (
	"net/http"
	"strconv"

	"github.com/jmehdipour/custdir/internal/repository"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
)

// queryFailed is all a client learns about a database error; the cause is logged.
var queryFailed = map[string]string{"error": "query failed"}

func listCustomersHandler(repo repository.CustomersRepository, static *staticFiles, lg *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if static.hasSPA() && c.Request().URL.Path == "/" {
			return static.serve(c)
		}

		limit := queryInt(c, "limit", defaultLimit, 1)
		offset := queryInt(c, "offset", defaultOffset, 0)

		rows, err := repo.ListCustomers(c.Request().Context(), limit, offset)
		if err != nil {
			lg.Error("list customers failed",
				zap.Error(err),
				zap.Int("limit", limit),
				zap.Int("offset", offset),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return c.JSON(http.StatusBadRequest, queryFailed)
		}

		return format(c,
			func() error {
				return c.Render(http.StatusOK, customersPage, listView{Customers: rows, Limit: limit, Offset: offset})
			},
			func() error { return c.JSON(http.StatusOK, rows) },
		)
	}
}

func getCustomerHandler(repo repository.CustomersRepository, lg *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			// no customer can match a non-numeric id
			return customerNotFound(c)
		}

		rec, err := repo.GetCustomerByID(c.Request().Context(), id)
		if err != nil {
			lg.Error("get customer failed",
				zap.Error(err),
				zap.Int64("id", id),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return c.JSON(http.StatusBadRequest, queryFailed)
		}
		if rec == nil {
			return customerNotFound(c)
		}

		return format(c,
			func() error { return c.Render(http.StatusOK, customerPage, newCustomerView(rec)) },
			func() error { return c.JSON(http.StatusOK, rec) },
		)
	}
}

func customerNotFound(c echo.Context) error {
	return format(c,
		func() error { return c.HTML(http.StatusNotFound, "<h2>Not found</h2>") },
		func() error { return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"}) },
	)
}

// queryInt reads an integer query parameter; absent, malformed or below floor yields def.
func queryInt(c echo.Context, name string, def, floor int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < floor {
		return def
	}
	return n
}
