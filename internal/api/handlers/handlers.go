package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/handlers/common"
	"github/chapool/go-ledger-app/internal/api/handlers/exchange"
	"github/chapool/go-ledger-app/internal/api/handlers/swap"
)

// AttachAllRoutes registers every route and keeps them in s.Router.Routes.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		exchange.PostAPDURoute(s),
		swap.PostCheckAddressRoute(s),
		swap.PostPrintableAmountRoute(s),
		swap.PostSignRoute(s),
	}
}
