package swap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/util"
	swaplib "github/chapool/go-ledger-app/internal/wallet/swap"
)

type PrintableAmountRequest struct {
	// Amount is big-endian hex of at most 16 bytes
	Amount string `json:"amount"`
	IsFee  *bool  `json:"is_fee,omitempty"`
}

type PrintableAmountResponse struct {
	Printable string `json:"printable"`
}

func PostPrintableAmountRoute(s *api.Server) *echo.Route {
	return s.Router.Swap.POST("/printable-amount", postPrintableAmountHandler(s))
}

func postPrintableAmountHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body PrintableAmountRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.ErrBadRequestMalformedBody.WithDetail(err)
		}

		amount, err := util.DecodeHex(body.Amount)
		if err != nil {
			return httperrors.ErrBadRequestInvalidHex.WithDetail(err)
		}

		params, err := swaplib.NewPrintableAmountParams(amount, util.FalseIfNil(body.IsFee))
		if err != nil {
			return httperrors.ErrBadRequestInvalidAmount.WithDetail(err)
		}

		printable, err := swaplib.PrintableAmount(ctx, params, s.Config.Device.Ticker, int(s.Config.Device.Decimals))
		if err != nil {
			return httperrors.ErrBadRequestInvalidAmount.WithDetail(err)
		}

		return c.JSON(http.StatusOK, PrintableAmountResponse{Printable: printable.String()})
	}
}
