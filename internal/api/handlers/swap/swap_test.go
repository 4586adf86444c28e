package swap_test

import (
	"bytes"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/handlers/swap"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/test"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

func TestPostCheckAddress(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		tests := []struct {
			name    string
			address string
			valid   bool
		}{
			{"plain", test.Address, true},
			{"prefixed", "0x" + test.Address, true},
			{"uppercase", "9858EFFD232B4033E47D90003D41EC34ECAEDA94", false},
			{"other", "0123456789012345678901234567890123456789", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := test.PerformRequest(t, s, "POST", "/swap/check-address", swap.CheckAddressRequest{
					Path:    "m/44'/60'/0'/0/0",
					Address: tt.address,
				}, nil)
				require.Equal(t, http.StatusOK, res.Result().StatusCode)

				var body swap.CheckAddressResponse
				test.ParseResponseAndValidate(t, res, &body)
				assert.Equal(t, tt.valid, body.Valid)
			})
		}
	})
}

func TestPostCheckAddressInvalidPath(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/swap/check-address", swap.CheckAddressRequest{
			Path:    "m/1/2/3/4/5/6/7/8/9/10/11",
			Address: test.Address,
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var body httperrors.HTTPError
		test.ParseResponseAndValidate(t, res, &body)
		assert.Equal(t, httperrors.TypeInvalidPath, body.Type)
	})
}

func TestPostPrintableAmount(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		isFee := true
		tests := []struct {
			name      string
			req       swap.PrintableAmountRequest
			printable string
		}{
			{"one and a half", swap.PrintableAmountRequest{Amount: "59682f00"}, "CRAB 1.5"},
			{"zero", swap.PrintableAmountRequest{Amount: "00"}, "CRAB 0"},
			{"fee", swap.PrintableAmountRequest{Amount: "0x01", IsFee: &isFee}, "CRAB 0.000000001"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := test.PerformRequest(t, s, "POST", "/swap/printable-amount", tt.req, nil)
				require.Equal(t, http.StatusOK, res.Result().StatusCode)

				var body swap.PrintableAmountResponse
				test.ParseResponseAndValidate(t, res, &body)
				assert.Equal(t, tt.printable, body.Printable)
			})
		}

		res := test.PerformRequest(t, s, "POST", "/swap/printable-amount",
			swap.PrintableAmountRequest{Amount: hex.EncodeToString(make([]byte, 17))}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func signFrames(t *testing.T, value uint64) []string {
	t.Helper()

	tx := &transaction.Transaction{Nonce: 1, Value: value}
	copy(tx.To[:], bytes.Repeat([]byte{0x11}, address.Length))
	raw, err := transaction.EncodeBinary(tx)
	require.NoError(t, err)

	first, err := apdu.Command{CLA: apdu.CLA, Ins: apdu.InsSignTx, P1: 0, P2: apdu.P2SignMore,
		Data: address.MustParseBIP44Path("m/44'/60'/0'/0/0").Encode()}.Encode()
	require.NoError(t, err)
	last, err := apdu.Command{CLA: apdu.CLA, Ins: apdu.InsSignTx, P1: 1, P2: apdu.P2SignLast, Data: raw}.Encode()
	require.NoError(t, err)

	return []string{hex.EncodeToString(first), hex.EncodeToString(last)}
}

func TestPostSign(t *testing.T) {
	dest := "0x" + hex.EncodeToString(bytes.Repeat([]byte{0x11}, address.Length))

	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/swap/sign", swap.SignRequest{
			Amount:      "2a",
			Destination: dest,
			Frames:      signFrames(t, 42),
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var body swap.SignResponse
		test.ParseResponseAndValidate(t, res, &body)
		assert.True(t, body.Signed)
		require.Len(t, body.Replies, 2)
		assert.Equal(t, "9000", body.Replies[0])
		assert.True(t, len(body.Replies[1]) > 4)
		assert.Equal(t, "9000", body.Replies[1][len(body.Replies[1])-4:])
	})
}

func TestPostSignAmountMismatch(t *testing.T) {
	dest := hex.EncodeToString(bytes.Repeat([]byte{0x11}, address.Length))

	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/swap/sign", swap.SignRequest{
			Amount:      "2b",
			Destination: dest,
			Frames:      signFrames(t, 42),
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var body swap.SignResponse
		test.ParseResponseAndValidate(t, res, &body)
		assert.False(t, body.Signed)
		require.Len(t, body.Replies, 2)

		reply, err := hex.DecodeString(body.Replies[1])
		require.NoError(t, err)
		payload, sw, err := apdu.SplitReply(reply)
		require.NoError(t, err)
		assert.Equal(t, apdu.StatusSwapFail, sw)
		assert.Equal(t, []byte{0x01, 0x00}, payload[:2])
		assert.Equal(t, "Amount tx 42 != swap 43", string(payload[2:]))
	})
}

func TestPostSignBadRequest(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/swap/sign", swap.SignRequest{
			Amount: "2a",
			Frames: []string{"zz"},
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}
