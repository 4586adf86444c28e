package client_test

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/client"
	"github/chapool/go-ledger-app/internal/test"
	"github/chapool/go-ledger-app/internal/transport"
	"github/chapool/go-ledger-app/internal/ui"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

var testPath = address.MustParseBIP44Path("m/44'/60'/0'/0/0")

func rawTx(t *testing.T, memo string) []byte {
	t.Helper()

	tx := &transaction.Transaction{Nonce: 7, Value: 1_500_000_000, Memo: memo}
	copy(tx.To[:], bytes.Repeat([]byte{0x22}, address.Length))
	raw, err := transaction.EncodeBinary(tx)
	require.NoError(t, err)
	return raw
}

func verify(t *testing.T, pub *client.PublicKey, raw []byte, sig *client.Signature) {
	t.Helper()

	key, err := secp256k1.ParsePubKey(pub.Key)
	require.NoError(t, err)
	parsed, err := ecdsa.ParseDERSignature(sig.DER)
	require.NoError(t, err)
	assert.True(t, parsed.Verify(crypto.Keccak256(raw), key))
	assert.LessOrEqual(t, sig.Parity, byte(1))
}

func TestClientLocal(t *testing.T) {
	d := test.NewTestDevice(t, ui.Static{Approve: true})
	c := client.New(client.Local{App: d.App})
	ctx := t.Context()

	version, err := c.GetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version.String())

	name, err := c.GetAppName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Conflux", name)

	pub, err := c.GetPublicKey(ctx, testPath, true)
	require.NoError(t, err)
	assert.Equal(t, test.Address, pub.Address.Hex())
	assert.Len(t, pub.ChainCode, address.ChainCodeLength)

	raw := rawTx(t, "")
	sig, err := c.SignTransaction(ctx, testPath, raw)
	require.NoError(t, err)
	verify(t, pub, raw, sig)
}

func TestClientSignsMultiChunk(t *testing.T) {
	d := test.NewTestDevice(t, ui.Static{Approve: true})
	c := client.New(client.Local{App: d.App})

	raw := rawTx(t, string(bytes.Repeat([]byte("m"), 400)))
	require.Greater(t, len(raw), apdu.MaxPayloadLen)

	pub, err := c.GetPublicKey(t.Context(), testPath, false)
	require.NoError(t, err)

	sig, err := c.SignTransaction(t.Context(), testPath, raw)
	require.NoError(t, err)
	verify(t, pub, raw, sig)
}

func TestClientDenied(t *testing.T) {
	d := test.NewTestDevice(t, ui.Static{Approve: false})
	c := client.New(client.Local{App: d.App})

	_, err := c.SignTransaction(t.Context(), testPath, rawTx(t, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apdu.StatusDeny))

	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, apdu.StatusDeny, statusErr.Status)

	_, err = c.GetPublicKey(t.Context(), testPath, true)
	assert.True(t, errors.Is(err, apdu.StatusDeny))
}

func TestClientRejectsOversizedTransaction(t *testing.T) {
	c := client.New(client.Local{})

	_, err := c.SignTransaction(t.Context(), testPath, make([]byte, transaction.MaxLen+1))
	assert.True(t, errors.Is(err, client.ErrTooLarge))
}

type replyExchanger []byte

func (r replyExchanger) Exchange(context.Context, []byte) ([]byte, error) {
	return r, nil
}

func TestClientMalformedReplies(t *testing.T) {
	_, err := client.New(replyExchanger{0x90}).GetAppName(t.Context())
	assert.True(t, errors.Is(err, client.ErrMalformedReply))

	_, err = client.New(replyExchanger{1, 2, 0x90, 0x00}).GetVersion(t.Context())
	assert.True(t, errors.Is(err, client.ErrMalformedReply))

	_, err = client.New(replyExchanger{65, 0x90, 0x00}).GetPublicKey(t.Context(), testPath, false)
	assert.True(t, errors.Is(err, client.ErrMalformedReply))
}

func TestClientHTTP(t *testing.T) {
	s := test.NewTestServer(t, ui.Static{Approve: true})
	srv := httptest.NewServer(s.Echo)
	t.Cleanup(srv.Close)

	c := client.New(client.HTTP{BaseURL: srv.URL + "/", Client: srv.Client()})

	name, err := c.GetAppName(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Conflux", name)

	pub, err := c.GetPublicKey(t.Context(), testPath, false)
	require.NoError(t, err)

	raw := rawTx(t, "hi")
	sig, err := c.SignTransaction(t.Context(), testPath, raw)
	require.NoError(t, err)
	verify(t, pub, raw, sig)
}

func TestClientTCP(t *testing.T) {
	d := test.NewTestDevice(t, ui.Static{Approve: true})

	hostSide, deviceSide := net.Pipe()
	go func() {
		_ = d.App.Serve(t.Context(), transport.NewConn(deviceSide))
	}()

	tcp := transport.NewClient(hostSide)
	t.Cleanup(func() { _ = tcp.Close() })

	c := client.New(tcp)
	version, err := c.GetVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, client.Version{Major: 1, Minor: 2, Patch: 3}, version)
}
