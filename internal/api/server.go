package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"github/chapool/go-ledger-app/internal/wallet/signer"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	Swap       *echo.Group
}

// Server is a central struct keeping all the dependencies.
// Echo and Router are initialized with router.Init(s) after all other components are set.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config   config.Server
	Seed     seed.Manager
	Engine   signer.Engine
	App      *device.App
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

// Ready reports whether every component is set and the seed is unlocked.
func (s *Server) Ready() bool {
	switch {
	case s.Echo == nil, s.Router == nil:
		log.Debug().Msg("Server router is not initialized")
		return false
	case s.Seed == nil, s.Engine == nil, s.App == nil:
		log.Debug().Msg("Server device is not initialized")
		return false
	case s.Registry == nil, s.Metrics == nil:
		log.Debug().Msg("Server metrics are not initialized")
		return false
	case !s.Seed.IsInitialized():
		log.Debug().Msg("Seed is locked")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Seed != nil {
		log.Debug().Msg("Wiping seed")
		s.Seed.Clear()
	}

	return errs
}
