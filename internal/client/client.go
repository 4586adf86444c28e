// Package client is the host side of the command set.
package client

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

const (
	pubkeyLen    = 65
	chainCodeLen = address.ChainCodeLength
)

var (
	ErrMalformedReply = errors.New("malformed reply")
	ErrTooLarge       = errors.New("transaction does not fit the chunk sequence")
)

type Client struct {
	ex Exchanger
}

func New(ex Exchanger) *Client {
	return &Client{ex: ex}
}

// exchange sends one command and splits the reply, failing on any non-Ok status.
func (c *Client) exchange(ctx context.Context, ins apdu.Ins, p1, p2 byte, data []byte) ([]byte, error) {
	frame, err := apdu.Command{CLA: apdu.CLA, Ins: ins, P1: p1, P2: p2, Data: data}.Encode()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", ins)
	}

	reply, err := c.ex.Exchange(ctx, frame)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to exchange %s", ins)
	}

	payload, sw, err := apdu.SplitReply(reply)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedReply, "%s reply of %d bytes", ins, len(reply))
	}

	util.LogFromContext(ctx).Debug().
		Str("ins", ins.String()).
		Uint8("p1", p1).
		Uint8("p2", p2).
		Str("status", sw.String()).
		Msg("Exchanged APDU")

	if sw != apdu.StatusOk {
		return nil, &StatusError{Status: sw, Data: payload}
	}

	return payload, nil
}

func (c *Client) GetVersion(ctx context.Context) (Version, error) {
	payload, err := c.exchange(ctx, apdu.InsGetVersion, apdu.P1P2Unused, apdu.P1P2Unused, nil)
	if err != nil {
		return Version{}, err
	}

	if len(payload) != 3 { //nolint:mnd
		return Version{}, errors.Wrapf(ErrMalformedReply, "version of %d bytes", len(payload))
	}

	return Version{Major: payload[0], Minor: payload[1], Patch: payload[2]}, nil
}

func (c *Client) GetAppName(ctx context.Context) (string, error) {
	payload, err := c.exchange(ctx, apdu.InsGetAppName, apdu.P1P2Unused, apdu.P1P2Unused, nil)
	if err != nil {
		return "", err
	}

	return string(payload), nil
}

// GetPublicKey fetches the key at path. With display set the operator has to
// confirm the address first.
func (c *Client) GetPublicKey(ctx context.Context, path address.DerivationPath, display bool) (*PublicKey, error) {
	p1 := apdu.P1NoConfirm
	if display {
		p1 = apdu.P1Confirm
	}

	payload, err := c.exchange(ctx, apdu.InsGetPubkey, p1, apdu.P2Unused, path.Encode())
	if err != nil {
		return nil, err
	}

	if len(payload) != 1+pubkeyLen+1+chainCodeLen || payload[0] != pubkeyLen || payload[1+pubkeyLen] != chainCodeLen {
		return nil, errors.Wrapf(ErrMalformedReply, "public key reply of %d bytes", len(payload))
	}

	key := payload[1 : 1+pubkeyLen]
	addr, err := address.FromPublicKey(key)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedReply, err.Error())
	}

	return &PublicKey{
		Key:       key,
		ChainCode: payload[2+pubkeyLen:],
		Address:   addr,
	}, nil
}

// SignTransaction streams raw after the path, at most one frame payload per chunk,
// and returns the signature released by the last chunk.
func (c *Client) SignTransaction(ctx context.Context, path address.DerivationPath, raw []byte) (*Signature, error) {
	if len(raw) > transaction.MaxLen {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes", len(raw))
	}

	chunks := split(raw, apdu.MaxPayloadLen)
	if len(chunks) > int(apdu.P1SignMax) {
		return nil, errors.Wrapf(ErrTooLarge, "%d chunks", len(chunks))
	}

	if _, err := c.exchange(ctx, apdu.InsSignTx, apdu.P1SignStart, apdu.P2SignMore, path.Encode()); err != nil {
		return nil, err
	}

	var payload []byte
	for i, chunk := range chunks {
		p2 := apdu.P2SignMore
		if i == len(chunks)-1 {
			p2 = apdu.P2SignLast
		}

		var err error
		payload, err = c.exchange(ctx, apdu.InsSignTx, byte(i+1), p2, chunk)
		if err != nil {
			return nil, err
		}
	}

	return parseSignature(payload)
}

// split cuts data into pieces of at most size bytes. Empty data yields one empty piece.
func split(data []byte, size int) [][]byte {
	chunks := make([][]byte, 0, len(data)/size+1)
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	return append(chunks, data)
}

// parseSignature decodes [len][DER][parity].
func parseSignature(payload []byte) (*Signature, error) {
	if len(payload) < 2 || int(payload[0]) != len(payload)-2 {
		return nil, errors.Wrapf(ErrMalformedReply, "signature reply of %d bytes", len(payload))
	}

	n := int(payload[0])
	return &Signature{DER: payload[1 : 1+n], Parity: payload[1+n]}, nil
}
