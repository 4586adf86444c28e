package transport

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/util"
)

// Server accepts host connections and serves each of them against one App.
// Frames of concurrent connections are serialised by the App.
type Server struct {
	app *device.App
	wg  sync.WaitGroup
}

func NewServer(app *device.App) *Server {
	return &Server{app: app}
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	log.Info().Str("address", l.Addr().String()).Msg("Serving APDU over TCP")
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done, then closes l and waits for
// open connections to finish.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()
	defer s.wg.Wait()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to accept connection")
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	l := log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	ctx = util.WithLogger(ctx, l)

	c := NewConn(conn)
	defer c.Close()

	l.Debug().Msg("Host connected")

	if err := s.app.Serve(ctx, c); err != nil && ctx.Err() == nil {
		l.Warn().Err(err).Msg("Host connection failed")
		return
	}

	l.Debug().Msg("Host disconnected")
}
