package server

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/transport"
)

// startTCP serves the device over TCP until ctx is done.
func startTCP(ctx context.Context, s *api.Server) error {
	if err := transport.NewServer(s.App).ListenAndServe(ctx, s.Config.TCP.ListenAddress); err != nil {
		return errors.Wrap(err, "tcp transport")
	}
	return nil
}
