package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the device",
		Long: `Starts the signing device.

Unlocks the seed and serves APDU frames over HTTP (POST /apdu) and,
if enabled, over TCP with length-prefixed frames.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		errs := make(chan error, 2) //nolint:mnd

		if cfg.TCP.Enabled {
			go func() {
				errs <- startTCP(ctx, s)
			}()
		}

		go func() {
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
				return
			}
			errs <- nil
		}()

		log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Serving APDU over HTTP")

		select {
		case <-ctx.Done():
			log.Info().Msg("Received shutdown signal")
			return nil
		case err := <-errs:
			if err != nil {
				log.Error().Err(err).Msg("Transport failed")
			}
			return err
		}
	})
}
