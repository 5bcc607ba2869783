package http

import (
	"net/http"
	"time"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/state"
	"github.com/labstack/echo/v4"
)

// publicConfig is the part of the configuration shown on /config; it has no password field.
type publicConfig struct {
	Port   int    `json:"port"`
	DBHost string `json:"db_host"`
	DBPort int    `json:"db_port"`
	DBUser string `json:"db_user"`
}

func configHandler(cfg config.Config) echo.HandlerFunc {
	pc := publicConfig{
		Port:   cfg.Port,
		DBHost: cfg.DBHost,
		DBPort: cfg.DBPort,
		DBUser: cfg.DBUser,
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pc)
	}
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int64{"time": time.Now().UnixMilli()})
}

func readyHandler(st *state.State) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !st.Ready() {
			return c.JSON(http.StatusBadRequest, struct{}{})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": true,
			"uptime": st.Uptime(),
		})
	}
}
