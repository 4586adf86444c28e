package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/apdu"
)

// Client is the host side of a TCP connection.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

// Dial connects to a device listening on addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", addr)
	}
	return NewClient(conn), nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, r: bufio.NewReader(conn)}
}

// Exchange sends one frame and returns the raw reply including the status word.
func (c *Client) Exchange(ctx context.Context, frame []byte) ([]byte, error) {
	if len(frame) > maxFrameLen {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes", len(frame))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer watch(ctx, c.conn)()

	out := make([]byte, lengthPrefix, lengthPrefix+len(frame))
	binary.BigEndian.PutUint32(out, uint32(len(frame))) //nolint:gosec
	out = append(out, frame...)
	if _, err := c.conn.Write(out); err != nil {
		return nil, ctxErr(ctx, errors.Wrap(err, "failed to write frame"))
	}

	var prefix [lengthPrefix]byte
	if _, err := io.ReadFull(c.r, prefix[:]); err != nil {
		return nil, ctxErr(ctx, errors.Wrap(err, "failed to read reply length"))
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > apdu.MaxResponseData {
		return nil, errors.Errorf("reply of %d bytes exceeds maximum", n)
	}

	reply := make([]byte, n+swLen)
	if _, err := io.ReadFull(c.r, reply); err != nil {
		return nil, ctxErr(ctx, errors.Wrap(err, "failed to read reply"))
	}

	return reply, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
