package device

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/swap"
)

// Exchanger delivers request frames and carries replies back to the host.
// Receive returns io.EOF once the host is gone.
type Exchanger interface {
	Receive(ctx context.Context) ([]byte, error)
	Send(ctx context.Context, reply []byte) error
}

// Serve handles frames from ex until the host disconnects or ctx is done.
func (a *App) Serve(ctx context.Context, ex Exchanger) error {
	for {
		frame, err := ex.Receive(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to receive frame")
		}

		if err := ex.Send(ctx, a.Handle(ctx, frame)); err != nil {
			return errors.Wrap(err, "failed to send reply")
		}
	}
}

// ServeSwap runs one swap signing session: review is delegated to the swap
// validator against params, and frames are served until a review decision was
// reached. It reports whether a signature was released. The dispatcher is held
// exclusively for the whole session.
func (a *App) ServeSwap(ctx context.Context, params *swap.CreateTxParams, ex Exchanger) (bool, error) {
	if params == nil {
		return false, errors.New("swap parameters are required")
	}

	log := util.LogFromContext(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.tx.Reset()
	a.tx.swap = params
	a.tx.signed = false
	defer func() {
		a.tx.Reset()
		a.tx.swap = nil
		a.tx.signed = false
	}()

	for !a.tx.reviewFinished {
		frame, err := ex.Receive(ctx)
		if errors.Is(err, io.EOF) {
			log.Warn().Msg("Host left swap session before review finished")
			return false, nil
		}
		if err != nil {
			return false, errors.Wrap(err, "failed to receive frame")
		}

		if err := ex.Send(ctx, a.handleLocked(ctx, frame)); err != nil {
			return false, errors.Wrap(err, "failed to send reply")
		}
	}

	log.Info().Bool("signed", a.tx.signed).Msg("Swap session finished")
	return a.tx.signed, nil
}

// Queue is an in-memory Exchanger over a fixed list of frames, collecting replies.
type Queue struct {
	frames  [][]byte
	replies [][]byte
}

func NewQueue(frames ...[]byte) *Queue {
	return &Queue{frames: frames}
}

func (q *Queue) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.frames) == 0 {
		return nil, io.EOF
	}

	frame := q.frames[0]
	q.frames = q.frames[1:]
	return frame, nil
}

func (q *Queue) Send(_ context.Context, reply []byte) error {
	q.replies = append(q.replies, reply)
	return nil
}

// Replies returns the replies sent so far, in order.
func (q *Queue) Replies() [][]byte {
	return q.replies
}
