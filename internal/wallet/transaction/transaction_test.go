package transaction_test

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

func testAddress() address.Address {
	var a address.Address
	b, _ := hex.DecodeString("0123456789012345678901234567890123456789")
	copy(a[:], b)
	return a
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, memo := range []string{"", "hello", string(make([]byte, 300))} {
		tx := &transaction.Transaction{Nonce: 1, To: testAddress(), Value: 42, Memo: memo}

		raw, err := transaction.EncodeBinary(tx)
		require.NoError(t, err)

		got, err := transaction.DecodeBinary(raw)
		require.NoError(t, err)
		assert.Equal(t, transaction.FormatBinary, got.Format)
		assert.Equal(t, tx.Nonce, got.Nonce)
		assert.Equal(t, tx.To, got.To)
		assert.Equal(t, tx.Value, got.Value)
		assert.Equal(t, tx.Memo, got.Memo)
	}
}

func TestBinaryLayout(t *testing.T) {
	raw, err := transaction.EncodeBinary(&transaction.Transaction{Nonce: 1, To: testAddress(), Value: 42, Memo: "hi"})
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000001"+"0123456789012345678901234567890123456789"+"000000000000002a"+"02"+"6869",
		hex.EncodeToString(raw))

	long, err := transaction.EncodeBinary(&transaction.Transaction{Memo: string(make([]byte, 253))})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfd, 0xfd, 0x00}, long[36:39])
}

func TestBinaryRejects(t *testing.T) {
	valid, err := transaction.EncodeBinary(&transaction.Transaction{Nonce: 1, To: testAddress(), Value: 42, Memo: "ok"})
	require.NoError(t, err)

	nonASCII := append([]byte{}, valid...)
	nonASCII[len(nonASCII)-1] = 0x80

	oversizedMemo := append([]byte{}, valid[:36]...)
	oversizedMemo = append(oversizedMemo, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 'a')

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"truncated destination", valid[:20]},
		{"missing memo length", valid[:36]},
		{"truncated memo", valid[:len(valid)-1]},
		{"trailing bytes", append(append([]byte{}, valid...), 0)},
		{"non-ascii memo", nonASCII},
		{"memo length beyond buffer", oversizedMemo},
		{"truncated varint", append(append([]byte{}, valid[:36]...), 0xfe, 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := transaction.DecodeBinary(tt.raw)
			require.ErrorIs(t, err, transaction.ErrParse)
			assert.Nil(t, tx)
		})
	}

	_, err = transaction.DecodeBinary(nonASCII)
	require.ErrorIs(t, err, transaction.ErrNonASCIIMemo)
}

func TestJSON(t *testing.T) {
	tx, err := transaction.DecodeJSON([]byte(`{"nonce":1,"coin":"CRAB","value":42,"to":"0x0123456789012345678901234567890123456789","memo":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tx.Nonce)
	assert.Equal(t, "CRAB", tx.Coin)
	assert.Equal(t, uint64(42), tx.Value)
	assert.Equal(t, testAddress(), tx.To)
	assert.Equal(t, "hi", tx.Memo)

	raw, err := transaction.EncodeJSON(tx)
	require.NoError(t, err)
	again, err := transaction.DecodeJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, again)

	for _, bad := range []string{
		``,
		`{"nonce":1,"value":42,"to":"0123"}`,
		`{"nonce":1,"value":42,"to":"0123456789012345678901234567890123456789","extra":1}`,
		`{"nonce":1,"value":-1,"to":"0123456789012345678901234567890123456789"}`,
		`{"value":1,"to":"0123456789012345678901234567890123456789"}`,
		`{"nonce":1,"value":1,"to":"zz23456789012345678901234567890123456789"}`,
		`{"nonce":1,"value":1,"to":"0123456789012345678901234567890123456789","memo":"café"}`,
		`{"nonce":1,"value":1,"to":"0123456789012345678901234567890123456789"} {}`,
		`[1,2]`,
		`{"nonce":1,"value":42,"value":999999,"to":"0123456789012345678901234567890123456789"}`,
		`{"nonce":1,"value":42,"VALUE":999999,"to":"0123456789012345678901234567890123456789"}`,
		`{"nonce":1,"value":42,"to":"0x1111111111111111111111111111111111111111","To":"0x2222222222222222222222222222222222222222"}`,
		`{"Nonce":1,"value":42,"to":"0123456789012345678901234567890123456789"}`,
		`{"nonce":1,"value":42,"to":"0123456789012345678901234567890123456789","memo":"a","memo":"b"}`,
	} {
		_, err := transaction.DecodeJSON([]byte(bad))
		require.ErrorIs(t, err, transaction.ErrParse, bad)
	}
}

func TestRLPVectors(t *testing.T) {
	key := common.HexToHash("3d709d64e3b668ddc615a5b05d6f109275096d27571d99ba02d28e84feac6b00")
	accessList := types.AccessList{{Address: common.Address(testAddress()), StorageKeys: []common.Hash{key}}}

	tests := []struct {
		name string
		tx   transaction.Transaction
		hex  string
	}{
		{
			name: "legacy",
			tx:   transaction.Transaction{Type: transaction.TypeLegacy, GasPrice: uint256.NewInt(1)},
			hex:  "dd0101019401234567890123456789012345678901234567890101010180",
		},
		{
			name: "legacy with data",
			tx:   transaction.Transaction{Type: transaction.TypeLegacy, GasPrice: uint256.NewInt(1), Data: []byte("hello")},
			hex:  "e2010101940123456789012345678901234567890123456789010101018568656c6c6f",
		},
		{
			name: "access list empty",
			tx:   transaction.Transaction{Type: transaction.TypeAccess, GasPrice: uint256.NewInt(1), Data: []byte("hello")},
			hex:  "63667801e3010101940123456789012345678901234567890123456789010101018568656c6c6fc0",
		},
		{
			name: "access list",
			tx: transaction.Transaction{
				Type: transaction.TypeAccess, GasPrice: uint256.NewInt(1), Data: []byte("hello"),
				AccessList: accessList,
			},
			hex: "63667801f85c010101940123456789012345678901234567890123456789010101018568656c6c6ff838f7940123456789012345678901234567890123456789e1a03d709d64e3b668ddc615a5b05d6f109275096d27571d99ba02d28e84feac6b00",
		},
		{
			name: "dynamic fee",
			tx: transaction.Transaction{
				Type: transaction.TypeDynamic, MaxPriorityFee: uint256.NewInt(1), MaxFee: uint256.NewInt(1),
				Data: []byte("hello"),
			},
			hex: "63667802e401010101940123456789012345678901234567890123456789010101018568656c6c6fc0",
		},
		{
			name: "dynamic fee with access list",
			tx: transaction.Transaction{
				Type: transaction.TypeDynamic, MaxPriorityFee: uint256.NewInt(1), MaxFee: uint256.NewInt(1),
				Data: []byte("hello"), AccessList: accessList,
			},
			hex: "63667802f85d01010101940123456789012345678901234567890123456789010101018568656c6c6ff838f7940123456789012345678901234567890123456789e1a03d709d64e3b668ddc615a5b05d6f109275096d27571d99ba02d28e84feac6b00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := tt.tx
			tx.Nonce, tx.Gas, tx.Value, tx.StorageLimit, tx.EpochHeight, tx.ChainID = 1, 1, 1, 1, 1, 1
			tx.To = testAddress()

			raw, err := transaction.EncodeRLP(&tx)
			require.NoError(t, err)
			assert.Equal(t, tt.hex, hex.EncodeToString(raw))

			got, err := transaction.DecodeRLP(mustHex(t, tt.hex))
			require.NoError(t, err)
			assert.Equal(t, transaction.FormatRLP, got.Format)
			assert.Equal(t, tt.tx.Type, got.Type)
			assert.Equal(t, uint64(1), got.Value)
			assert.Equal(t, uint64(1), got.ChainID)
			assert.Equal(t, testAddress(), got.To)
			assert.Equal(t, len(tt.tx.AccessList), len(got.AccessList))
		})
	}
}

func TestRLPRejects(t *testing.T) {
	overflow := transaction.Transaction{Type: transaction.TypeLegacy, GasPrice: uint256.NewInt(1)}
	raw, err := transaction.EncodeRLP(&overflow)
	require.NoError(t, err)

	// value field replaced by a 9-byte integer
	big := mustHex(t, "e6010180940000000000000000000000000000000000000000"+"89010000000000000000"+"80808080")

	for name, in := range map[string][]byte{
		"empty":          nil,
		"bad prefix":     []byte("cfx\x03\xc0"),
		"short list":     mustHex(t, "c3010101"),
		"trailing bytes": append(raw, 0x00),
		"value overflow": big,
	} {
		_, err := transaction.DecodeRLP(in)
		require.ErrorIs(t, err, transaction.ErrParse, name)
	}
}

func TestDecodeByFormat(t *testing.T) {
	f, err := transaction.ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, transaction.FormatJSON, f)

	_, err = transaction.ParseFormat("xml")
	require.Error(t, err)

	raw, err := transaction.EncodeBinary(&transaction.Transaction{Value: 7})
	require.NoError(t, err)
	tx, err := transaction.Decode(transaction.FormatBinary, raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), tx.Value)

	_, err = transaction.Decode(transaction.FormatRLP, raw)
	require.ErrorIs(t, err, transaction.ErrParse)
}

func TestFields(t *testing.T) {
	tx := &transaction.Transaction{Format: transaction.FormatBinary, To: testAddress(), Value: 42, Memo: "hi"}
	d := transaction.Display{Ticker: "CRAB", Decimals: 9}

	fields := transaction.Fields(tx, d)
	require.Len(t, fields, 2)
	assert.Equal(t, "CRAB 0.000000042", fields[0].Value)
	assert.Equal(t, "0x0123456789012345678901234567890123456789", fields[1].Value)

	d.ShowMemo = true
	fields = transaction.Fields(tx, d)
	require.Len(t, fields, 3)
	assert.Equal(t, "hi", fields[2].Value)

	rlpTx := &transaction.Transaction{Format: transaction.FormatRLP, Coin: "CFX", Value: 1, Data: []byte{1}}
	fields = transaction.Fields(rlpTx, d)
	assert.Equal(t, "CRAB 0.000000001", fields[0].Value)
	assert.Equal(t, "Data", fields[len(fields)-1].Name)
}

func TestCheckCoin(t *testing.T) {
	require.NoError(t, transaction.CheckCoin(&transaction.Transaction{}, "CRAB"))
	require.NoError(t, transaction.CheckCoin(&transaction.Transaction{Coin: "CRAB"}, "CRAB"))

	for _, coin := range []string{"BTC", "crab", "CRAB "} {
		err := transaction.CheckCoin(&transaction.Transaction{Coin: coin}, "CRAB")
		require.ErrorIs(t, err, transaction.ErrCoinMismatch, coin)
		require.ErrorIs(t, err, transaction.ErrParse, coin)
	}
}
