package signer_test

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"github/chapool/go-ledger-app/internal/wallet/signer"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newService(t *testing.T) signer.Service {
	t.Helper()

	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))
	t.Cleanup(m.Clear)

	return signer.NewService(signer.NewEngine(m))
}

func TestPublicKey(t *testing.T) {
	svc := newService(t)

	pub, err := svc.PublicKey(t.Context(), address.MustParseBIP44Path("m/44'/60'/0'/0/0"))
	require.NoError(t, err)
	assert.Len(t, pub.Key, 65)
	assert.Equal(t, byte(0x04), pub.Key[0])
	assert.Len(t, pub.ChainCode, address.ChainCodeLength)
	assert.Equal(t, "9858effd232b4033e47d90003d41ec34ecaeda94", pub.Address.Hex())
}

func TestSignTransaction(t *testing.T) {
	svc := newService(t)
	path := address.MustParseBIP44Path("m/44'/1'/0'/0/0")
	raw := []byte("some raw transaction bytes")

	sig, err := svc.SignTransaction(t.Context(), raw, path)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256(raw), sig.Digest)
	assert.LessOrEqual(t, sig.Parity, byte(1))

	again, err := svc.SignTransaction(t.Context(), raw, path)
	require.NoError(t, err)
	assert.Equal(t, sig.DER, again.DER, "signatures are deterministic")

	pub, err := svc.PublicKey(t.Context(), path)
	require.NoError(t, err)

	parsed, err := ecdsa.ParseDERSignature(sig.DER)
	require.NoError(t, err)

	r, s := parsed.R(), parsed.S()
	rb, sb := r.Bytes(), s.Bytes()
	compact := append([]byte{27 + sig.Parity}, rb[:]...)
	compact = append(compact, sb[:]...)

	recovered, _, err := ecdsa.RecoverCompact(compact, sig.Digest)
	require.NoError(t, err)
	assert.Equal(t, pub.Key, recovered.SerializeUncompressed())
	assert.True(t, parsed.Verify(sig.Digest, recovered))
}

func TestSignWithoutSeed(t *testing.T) {
	svc := signer.NewService(signer.NewEngine(seed.NewManager()))

	_, err := svc.SignTransaction(t.Context(), []byte{1}, address.MustParseBIP44Path("m/0"))
	require.ErrorIs(t, err, address.ErrDerive)

	_, err = svc.PublicKey(t.Context(), address.MustParseBIP44Path("m/0"))
	require.ErrorIs(t, err, address.ErrDerive)
}

type failingEngine struct {
	signer.Engine
	hashErr error
	signErr error
}

func (f failingEngine) Hash(data []byte) ([]byte, error) {
	if f.hashErr != nil {
		return nil, f.hashErr
	}
	return f.Engine.Hash(data)
}

func (f failingEngine) Sign(key *address.ExtendedKey, digest []byte) ([]byte, byte, error) {
	if f.signErr != nil {
		return nil, 0, f.signErr
	}
	return f.Engine.Sign(key, digest)
}

func TestPipelineFailures(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))
	path := address.MustParseBIP44Path("m/0")

	svc := signer.NewService(failingEngine{Engine: signer.NewEngine(m), hashErr: errors.New("boom")})
	_, err := svc.SignTransaction(t.Context(), []byte{1}, path)
	require.ErrorIs(t, err, signer.ErrHash)

	svc = signer.NewService(failingEngine{Engine: signer.NewEngine(m), signErr: errors.New("boom")})
	_, err = svc.SignTransaction(t.Context(), []byte{1}, path)
	require.ErrorIs(t, err, signer.ErrSign)
}
