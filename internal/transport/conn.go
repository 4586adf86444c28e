// Package transport carries frames over TCP. Every request is prefixed with its
// 4-byte big-endian length; every reply is prefixed with the length of its payload
// and followed by the status word.
package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/apdu"
)

const (
	lengthPrefix = 4
	swLen        = 2
	maxFrameLen  = apdu.HeaderLen + apdu.MaxPayloadLen
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum length")

// Conn is the device side of one host connection and implements device.Exchanger.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, r: bufio.NewReader(conn)}
}

// Receive reads one request frame. It returns io.EOF when the host closed the
// connection between frames.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	defer watch(ctx, c.conn)()

	var prefix [lengthPrefix]byte
	if _, err := io.ReadFull(c.r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, ctxErr(ctx, errors.Wrap(err, "failed to read frame length"))
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxFrameLen {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes", n)
	}

	frame := make([]byte, n)
	if _, err := io.ReadFull(c.r, frame); err != nil {
		return nil, ctxErr(ctx, errors.Wrap(err, "failed to read frame"))
	}

	return frame, nil
}

// Send writes one reply, data followed by the status word.
func (c *Conn) Send(ctx context.Context, reply []byte) error {
	if len(reply) < swLen {
		return errors.Errorf("reply of %d bytes carries no status word", len(reply))
	}

	defer watch(ctx, c.conn)()

	out := make([]byte, lengthPrefix, lengthPrefix+len(reply))
	binary.BigEndian.PutUint32(out, uint32(len(reply)-swLen)) //nolint:gosec
	out = append(out, reply...)

	if _, err := c.conn.Write(out); err != nil {
		return ctxErr(ctx, errors.Wrap(err, "failed to write reply"))
	}
	return nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// watch unblocks pending I/O on conn once ctx is done. The returned func stops watching.
func watch(ctx context.Context, conn net.Conn) func() {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	return func() { stop() }
}

func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), err.Error())
	}
	return err
}
