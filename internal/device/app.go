package device

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/settings"
	"github/chapool/go-ledger-app/internal/ui"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/swap"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
	"golang.org/x/mod/semver"
)

// Config describes the application identity and transaction rendering.
type Config struct {
	AppName  string
	Version  string
	Ticker   string
	Decimals int32
	TxFormat transaction.Format
}

// App is the request dispatcher. One frame is handled at a time and at most
// one signing sequence is in flight.
type App struct {
	mu       sync.Mutex
	cfg      Config
	signer   signer.Service
	reviewer ui.Reviewer
	settings settings.Store
	metrics  *metrics.Metrics
	tx       *TxContext
}

// NewApp wires the dispatcher. m may be nil.
func NewApp(cfg Config, signerService signer.Service, reviewer ui.Reviewer, store settings.Store, m *metrics.Metrics) *App {
	return &App{
		cfg:      cfg,
		signer:   signerService,
		reviewer: reviewer,
		settings: store,
		metrics:  m,
		tx:       newTxContext(),
	}
}

// Handle processes one request frame and returns the encoded reply.
// It blocks while another frame or a swap session is being served.
func (a *App) Handle(ctx context.Context, frame []byte) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.handleLocked(ctx, frame)
}

func (a *App) handleLocked(ctx context.Context, frame []byte) []byte {
	log := util.LogFromContext(ctx)
	started := time.Now()
	resp := apdu.NewResponse()

	cmd, err := apdu.ParseCommand(frame)
	if err == nil {
		err = a.dispatch(ctx, cmd, resp)
	}

	sw, keepData := a.status(ctx, err, resp)

	event := log.Debug()
	if sw != apdu.StatusOk {
		event = log.Warn().AnErr("reason", err)
	}
	event.Str("ins", cmd.Ins.String()).
		Uint8("p1", cmd.P1).
		Uint8("p2", cmd.P2).
		Int("lc", len(cmd.Data)).
		Str("status", sw.String()).
		Msg("Handled APDU")

	a.metrics.ObserveRequest(cmd.Ins.String(), sw.String(), started)

	// home is shown once, by the exchange that finished the review
	if cmd.Ins == apdu.InsSignTx && a.tx.reviewFinished && a.tx.swap == nil {
		a.reviewer.ShowHome(ctx)
		a.tx.reviewFinished = false
	}

	return resp.Encode(sw, keepData)
}

func (a *App) dispatch(ctx context.Context, cmd apdu.Command, resp *apdu.Response) error {
	ins, err := apdu.DecodeInstruction(cmd)
	if err != nil {
		return err
	}

	switch ins.Kind {
	case apdu.KindGetVersion:
		return a.handleGetVersion(resp)
	case apdu.KindGetAppName:
		return a.handleGetAppName(resp)
	case apdu.KindGetPubkey:
		return a.handleGetPubkey(ctx, cmd.Data, ins.Display, resp)
	case apdu.KindSignTx:
		return a.handleSignTx(ctx, cmd.Data, ins.Chunk, ins.More, resp)
	default:
		return apdu.StatusInsNotSupported
	}
}

// status maps a handler outcome to its status word. A swap failure replaces the
// payload with [common code, app code, message].
func (a *App) status(ctx context.Context, err error, resp *apdu.Response) (apdu.StatusWord, bool) {
	if err == nil {
		return apdu.StatusOk, false
	}

	var swapErr swap.Error
	if errors.As(err, &swapErr) {
		resp.Reset()
		_ = resp.Append(byte(swapErr.Common), byte(swapErr.App))
		msg := swapErr.Message()
		if room := apdu.MaxResponseData - len(resp.Data()); len(msg) > room {
			msg = msg[:room]
		}
		_ = resp.Append(msg...)
		return apdu.StatusSwapFail, true
	}

	var sw apdu.StatusWord
	if errors.As(err, &sw) {
		return sw, false
	}

	util.LogFromContext(ctx).Error().Err(err).Msg("Unmapped handler error, denying")
	return apdu.StatusDeny, false
}

// parseVersion turns "major.minor.patch" into three bytes.
func parseVersion(version string) ([3]byte, error) {
	var out [3]byte

	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) || semver.Prerelease(v) != "" {
		return out, errors.Errorf("invalid version %q", version)
	}

	parts := strings.Split(strings.TrimPrefix(semver.Canonical(v), "v"), ".")
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return out, errors.Wrapf(err, "version component %q", part)
		}
		out[i] = byte(n)
	}

	return out, nil
}
