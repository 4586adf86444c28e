package swap_test

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/ui"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/swap"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	destHex      = "0123456789012345678901234567890123456789"
)

func createTxParams(amount uint64, dest string) *swap.CreateTxParams {
	p := &swap.CreateTxParams{AmountLen: 8, DestAddressLen: len(dest)}
	binary.BigEndian.PutUint64(p.Amount[swap.AmountBufSize-8:], amount)
	copy(p.DestAddress[:], dest)
	return p
}

func testTx(value uint64) *transaction.Transaction {
	tx := &transaction.Transaction{Value: value}
	copy(tx.To[:], []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0x01, 0x23, 0x45, 0x67, 0x89,
		0x01, 0x23, 0x45, 0x67, 0x89, 0x01, 0x23, 0x45, 0x67, 0x89})
	return tx
}

func requireSwapError(t *testing.T, err error, common swap.CommonCode, app swap.AppCode) swap.Error {
	t.Helper()

	var swapErr swap.Error
	require.True(t, errors.As(err, &swapErr), "expected swap.Error, got %v", err)
	assert.Equal(t, common, swapErr.Common)
	assert.Equal(t, app, swapErr.App)
	return swapErr
}

func TestCheckTransaction(t *testing.T) {
	ctx := t.Context()

	require.NoError(t, swap.CheckTransaction(ctx, createTxParams(1000, destHex), testTx(1000)))
	require.NoError(t, swap.CheckTransaction(ctx, createTxParams(1000, "0x"+destHex), testTx(1000)))

	for _, value := range []uint64{999, 1001} {
		err := swap.CheckTransaction(ctx, createTxParams(1000, destHex), testTx(value))
		swapErr := requireSwapError(t, err, swap.ErrorWrongAmount, swap.AppDefault)
		assert.Contains(t, string(swapErr.Message()), "1000")
		assert.Contains(t, string(swapErr.Message()), "Amount tx ")
	}

	err := swap.CheckTransaction(ctx, createTxParams(1000, destHex), testTx(1001))
	swapErr := requireSwapError(t, err, swap.ErrorWrongAmount, swap.AppDefault)
	assert.Equal(t, "Amount tx 1001 != swap 1000", string(swapErr.Message()))

	tx := testTx(1000)
	tx.To[19] ^= 0x01
	err = swap.CheckTransaction(ctx, createTxParams(1000, destHex), tx)
	swapErr = requireSwapError(t, err, swap.ErrorWrongDestination, swap.AppDefault)
	assert.Equal(t,
		"Destination mismatch: tx 0123456789012345678901234567890123456788 != swap "+destHex,
		string(swapErr.Message()))
	assert.Contains(t, err.Error(), "wrong_destination")
}

func TestCheckTransactionDecodeFailures(t *testing.T) {
	ctx := t.Context()

	tooBig := createTxParams(1000, destHex)
	tooBig.Amount[7] = 1
	tooBig.AmountLen = 9
	requireSwapError(t, swap.CheckTransaction(ctx, tooBig, testTx(1000)), swap.ErrorWrongAmount, swap.AppAmountCastFail)

	badLen := createTxParams(1000, destHex)
	badLen.AmountLen = swap.AmountBufSize + 1
	requireSwapError(t, swap.CheckTransaction(ctx, badLen, testTx(1000)), swap.ErrorWrongAmount, swap.AppAmountCastFail)

	for _, dest := range []string{"", destHex[:38], destHex + "00", "zz" + destHex[2:], "\xff\xfe"} {
		err := swap.CheckTransaction(ctx, createTxParams(1000, dest), testTx(1000))
		requireSwapError(t, err, swap.ErrorWrongDestination, swap.AppDestinationDecodeFail)
	}
}

func newEngine(t *testing.T) signer.Engine {
	t.Helper()

	m := seed.NewManager()
	require.NoError(t, m.Initialize(testMnemonic, ""))
	return signer.NewEngine(m)
}

func checkAddressParams(path address.DerivationPath, ref string) *swap.CheckAddressParams {
	p := &swap.CheckAddressParams{DPathLen: path.Len(), RefAddressLen: len(ref)}
	copy(p.DPath[:], path.Encode()[1:])
	copy(p.RefAddress[:], ref)
	return p
}

func TestCheckAddress(t *testing.T) {
	engine := newEngine(t)
	path := address.MustParseBIP44Path("m/44'/60'/0'/0/0")

	assert.True(t, swap.CheckAddress(t.Context(), checkAddressParams(path, "9858effd232b4033e47d90003d41ec34ecaeda94"), engine))
	assert.False(t, swap.CheckAddress(t.Context(), checkAddressParams(path, "9858EFFD232B4033E47D90003D41EC34ECAEDA94"), engine))
	assert.False(t, swap.CheckAddress(t.Context(), checkAddressParams(path, destHex), engine))

	tooLong := checkAddressParams(path, "9858effd232b4033e47d90003d41ec34ecaeda94")
	tooLong.DPathLen = address.MaxPathLen + 1
	assert.False(t, swap.CheckAddress(t.Context(), tooLong, engine))
}

func TestPrintableAmount(t *testing.T) {
	tests := []struct {
		amount   []byte
		decimals int
		want     string
	}{
		{[]byte{0x2a}, 9, "CRAB 0.000000042"},
		{[]byte{0x59, 0x68, 0x2f, 0x00}, 9, "CRAB 1.5"},
		{nil, 9, "CRAB 0"},
		{[]byte{0x03, 0xe8}, 0, "CRAB 1000"},
		{[]byte{0x03, 0xe8}, 3, "CRAB 1"},
		{
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			18, "CRAB 79228162514.264337593543950335",
		},
	}

	for _, tt := range tests {
		params := &swap.PrintableAmountParams{AmountLen: len(tt.amount)}
		copy(params.Amount[swap.AmountBufSize-len(tt.amount):], tt.amount)

		out, err := swap.PrintableAmount(t.Context(), params, "CRAB", tt.decimals)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.String())
	}

	_, err := swap.PrintableAmount(t.Context(), &swap.PrintableAmountParams{AmountLen: 17}, "CRAB", 9)
	require.ErrorIs(t, err, swap.ErrAmountLength)

	full := &swap.PrintableAmountParams{AmountLen: swap.AmountBufSize}
	for i := range full.Amount {
		full.Amount[i] = 0xff
	}
	_, err = swap.PrintableAmount(t.Context(), full, "CRAB", 9)
	require.ErrorIs(t, err, swap.ErrPrintableLength)
}

func TestPrintableAmountMatchesReview(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1_000_000_000, 1_234_567_890_123, 18446744073709551615} {
		params := &swap.PrintableAmountParams{AmountLen: 8}
		binary.BigEndian.PutUint64(params.Amount[8:], v)

		out, err := swap.PrintableAmount(t.Context(), params, "CRAB", 9)
		require.NoError(t, err)
		assert.Equal(t, ui.FormatAmount(v, 9, "CRAB"), out.String())
	}
}
