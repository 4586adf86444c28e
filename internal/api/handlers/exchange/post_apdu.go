package exchange

import (
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/util"
)

// Payload is both the request and the response body of POST /apdu.
type Payload struct {
	// Data is the hex encoded frame, or reply including the status word
	Data string `json:"data"`
}

func PostAPDURoute(s *api.Server) *echo.Route {
	return s.Router.Root.POST("/apdu", postAPDUHandler(s))
}

func postAPDUHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body Payload
		if err := c.Bind(&body); err != nil {
			return httperrors.ErrBadRequestMalformedBody.WithDetail(err)
		}

		frame, err := util.DecodeHex(body.Data)
		if err != nil {
			return httperrors.ErrBadRequestInvalidHex.WithDetail(err)
		}

		reply := s.App.Handle(ctx, frame)

		return c.JSON(http.StatusOK, Payload{Data: hex.EncodeToString(reply)})
	}
}
