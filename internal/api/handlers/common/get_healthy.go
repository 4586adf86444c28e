package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Liveness check
// The process answers as long as the dispatcher is not wedged.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.App == nil {
			return c.String(statusNotReady, "Not healthy.")
		}

		return c.String(http.StatusOK, "Healthy.")
	}
}
