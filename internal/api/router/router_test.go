package router_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/test"
)

func TestRoutesAttached(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		paths := make(map[string]string)
		for _, r := range s.Router.Routes {
			paths[r.Path] = r.Method
		}

		assert.Equal(t, map[string]string{
			"/-/healthy":             http.MethodGet,
			"/-/ready":               http.MethodGet,
			"/metrics":               http.MethodGet,
			"/apdu":                  http.MethodPost,
			"/swap/check-address":    http.MethodPost,
			"/swap/printable-amount": http.MethodPost,
			"/swap/sign":             http.MethodPost,
		}, paths)
	})
}

func TestRequestIDHeader(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Len(t, res.Header().Get(echo.HeaderXRequestID), 36)

		headers := http.Header{}
		headers.Set(echo.HeaderXRequestID, "fixed-id")
		res = test.PerformRequest(t, s, "GET", "/-/healthy", nil, headers)
		assert.Equal(t, "fixed-id", res.Header().Get(echo.HeaderXRequestID))
	})
}

func TestUnknownRouteUsesDefaultErrorHandler(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Result().StatusCode)
	})
}
