package swap

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/wallet/address"
	swaplib "github/chapool/go-ledger-app/internal/wallet/swap"
)

type CheckAddressRequest struct {
	// Path in textual form, e.g. m/44'/60'/0'/0/0
	Path string `json:"path"`

	// Address is the lowercase hex reference, an optional 0x prefix is dropped
	Address string `json:"address"`
}

type CheckAddressResponse struct {
	Valid bool `json:"valid"`
}

func PostCheckAddressRoute(s *api.Server) *echo.Route {
	return s.Router.Swap.POST("/check-address", postCheckAddressHandler(s))
}

func postCheckAddressHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body CheckAddressRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.ErrBadRequestMalformedBody.WithDetail(err)
		}

		path, err := address.ParseBIP44Path(body.Path)
		if err != nil {
			return httperrors.ErrBadRequestInvalidPath.WithDetail(err)
		}

		params, err := swaplib.NewCheckAddressParams(path, strings.TrimPrefix(body.Address, "0x"))
		if err != nil {
			return httperrors.ErrBadRequestInvalidAddress.WithDetail(err)
		}

		valid := swaplib.CheckAddress(ctx, params, s.Engine)
		s.Metrics.ObserveSwapCheck(metrics.SwapCheckAddress, metrics.SwapResult(valid))

		return c.JSON(http.StatusOK, CheckAddressResponse{Valid: valid})
	}
}
