package router

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/handlers"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/util"
)

// Init creates the echo instance, its middleware chain and attaches all routes to s.
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = httpErrorHandler(s.Echo)

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: attachRequestID,
	}))
	s.Echo.Use(middleware.BodyLimit("64K"))

	s.Router = &api.Router{
		Routes:     nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		Swap:       s.Echo.Group("/swap"),
	}

	handlers.AttachAllRoutes(s)
}

// attachRequestID stores the request id in the request context together with a
// logger carrying it.
func attachRequestID(c echo.Context, id string) {
	req := c.Request()
	ctx := req.Context()

	l := util.LogFromContext(ctx).With().Str("id", id).Logger()
	ctx = util.WithLogger(ctx, l)
	ctx = context.WithValue(ctx, util.CTXKeyRequestID, id)

	c.SetRequest(req.WithContext(ctx))
}

func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *httperrors.HTTPError
		if !errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		if c.Response().Committed {
			return
		}

		util.LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Request failed")

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, he)
		}
		if err != nil {
			util.LogFromContext(c.Request().Context()).Error().Err(err).Msg("Failed to write error response")
		}
	}
}
