package device

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/settings"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/swap"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

// fail attaches the underlying cause to a status word for logging.
func fail(sw apdu.StatusWord, cause error) error {
	return errors.Wrap(sw, cause.Error())
}

func (a *App) handleGetVersion(resp *apdu.Response) error {
	version, err := parseVersion(a.cfg.Version)
	if err != nil {
		return fail(apdu.StatusVersionParsingFail, err)
	}
	return resp.Append(version[:]...)
}

func (a *App) handleGetAppName(resp *apdu.Response) error {
	if err := resp.Append([]byte(a.cfg.AppName)...); err != nil {
		return fail(apdu.StatusWrongDataLength, err)
	}
	return nil
}

// handleGetPubkey replies [65][pubkey][32][chaincode], optionally after the
// operator confirmed the address.
func (a *App) handleGetPubkey(ctx context.Context, data []byte, display bool, resp *apdu.Response) error {
	path, err := address.ParsePath(data)
	if err != nil {
		return fail(apdu.StatusWrongApduLength, err)
	}

	pub, err := a.signer.PublicKey(ctx, path)
	if err != nil {
		return fail(apdu.StatusKeyDeriveFail, err)
	}

	if display {
		approved, err := a.reviewer.ReviewAddress(ctx, "0x"+pub.Address.Hex())
		if err != nil {
			return fail(apdu.StatusAddrDisplayFail, err)
		}
		if !approved {
			return apdu.StatusDeny
		}
	}

	if err := resp.AppendLV(pub.Key); err != nil {
		return fail(apdu.StatusWrongDataLength, err)
	}
	if err := resp.AppendLV(pub.ChainCode); err != nil {
		return fail(apdu.StatusWrongDataLength, err)
	}
	return nil
}

// handleSignTx drives the chunk assembler. Chunk 0 resets the context and stores
// the path; later chunks append; the last one decodes, gates and signs.
func (a *App) handleSignTx(ctx context.Context, data []byte, chunk byte, more bool, resp *apdu.Response) error {
	log := util.LogFromContext(ctx)
	tx := a.tx

	if chunk == apdu.P1SignStart {
		tx.Reset()

		path, err := address.ParsePath(data)
		if err != nil {
			return fail(apdu.StatusWrongApduLength, err)
		}
		tx.path = path
		tx.active = true
		tx.nextChunk = 1
		return nil
	}

	if !tx.active {
		return fail(apdu.StatusWrongP1P2, errors.Errorf("chunk %d without a started sequence", chunk))
	}
	if chunk != tx.nextChunk {
		return fail(apdu.StatusWrongP1P2, errors.Errorf("chunk %d out of order, expected %d", chunk, tx.nextChunk))
	}

	if err := tx.raw.Append(data...); err != nil {
		log.Warn().Int("buffered", tx.raw.Len()).Int("chunk_len", len(data)).Msg("Transaction exceeds buffer, aborting sequence")
		tx.abort()
		return fail(apdu.StatusTxWrongLength, err)
	}
	tx.nextChunk++

	if more {
		return nil
	}

	// the last chunk ends the sequence whatever the outcome
	defer tx.abort()

	decoded, err := transaction.Decode(a.cfg.TxFormat, tx.raw.Bytes())
	if err != nil {
		return fail(apdu.StatusTxParsingFail, err)
	}
	if err := transaction.CheckCoin(decoded, a.cfg.Ticker); err != nil {
		return fail(apdu.StatusTxParsingFail, err)
	}

	if err := a.approve(ctx, decoded); err != nil {
		return err
	}

	return a.sign(ctx, resp)
}

// approve is the approval gate: the swap validator when the session carries
// reference parameters, the operator otherwise.
func (a *App) approve(ctx context.Context, decoded *transaction.Transaction) error {
	tx := a.tx

	if tx.swap != nil {
		err := swap.CheckTransaction(ctx, tx.swap, decoded)
		tx.reviewFinished = true

		result := metrics.SwapResultOK
		var swapErr swap.Error
		if errors.As(err, &swapErr) {
			result = swapErr.Common.String()
		}
		a.metrics.ObserveSwapCheck(metrics.SwapCheckTransaction, result)

		return err
	}

	fields := transaction.Fields(decoded, transaction.Display{
		Ticker:   a.cfg.Ticker,
		Decimals: a.cfg.Decimals,
		ShowMemo: settings.Enabled(a.settings, settings.DisplayMemo),
	})

	approved, err := a.reviewer.ReviewTransaction(ctx, fields)
	if err != nil {
		return fail(apdu.StatusTxDisplayFail, err)
	}
	tx.reviewFinished = true

	if !approved {
		return apdu.StatusDeny
	}
	return nil
}

// sign appends [len][DER signature][parity] to resp.
func (a *App) sign(ctx context.Context, resp *apdu.Response) error {
	tx := a.tx

	sig, err := a.signer.SignTransaction(ctx, tx.raw.Bytes(), tx.path)
	switch {
	case errors.Is(err, signer.ErrHash):
		return fail(apdu.StatusTxHashFail, err)
	case errors.Is(err, address.ErrDerive):
		return fail(apdu.StatusKeyDeriveFail, err)
	case err != nil:
		return fail(apdu.StatusTxSignFail, err)
	}

	if err := resp.AppendLV(sig.DER); err != nil {
		return fail(apdu.StatusTxSignFail, err)
	}
	if err := resp.Append(sig.Parity); err != nil {
		return fail(apdu.StatusTxSignFail, err)
	}

	if tx.swap != nil {
		tx.signed = true
	}
	return nil
}
