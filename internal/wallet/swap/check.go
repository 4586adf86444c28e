package swap

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"unicode/utf8"

	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

const amountWidth = 8

// CheckTransaction verifies that tx pays exactly the reference amount to exactly the
// reference destination. It returns a swap.Error on mismatch. params is borrowed and
// only read.
func CheckTransaction(ctx context.Context, params *CreateTxParams, tx *transaction.Transaction) error {
	log := util.LogFromContext(ctx)

	swapAmount, ok := referenceAmount(params)
	if !ok {
		log.Warn().Int("amount_len", params.AmountLen).Msg("Swap reference amount does not fit 64 bits")
		return newError(ErrorWrongAmount, AppAmountCastFail)
	}

	if tx.Value != swapAmount {
		log.Warn().Uint64("tx", tx.Value).Uint64("swap", swapAmount).Msg("Swap amount mismatch")

		e := newError(ErrorWrongAmount, AppDefault)
		e.writeString("Amount tx ")
		e.writeUint(tx.Value)
		e.writeString(" != swap ")
		e.writeUint(swapAmount)
		return e
	}

	dest, err := referenceDestination(params)
	if err != nil {
		log.Warn().Msg("Swap destination decode failed")
		return err
	}

	if dest != tx.To {
		var txHex, swapHex [2 * address.Length]byte
		hex.Encode(txHex[:], tx.To[:])
		hex.Encode(swapHex[:], dest[:])

		log.Warn().Bytes("tx", txHex[:]).Bytes("swap", swapHex[:]).Msg("Swap destination mismatch")

		e := newError(ErrorWrongDestination, AppDefault)
		e.writeString("Destination mismatch: tx ")
		e.write(txHex[:])
		e.writeString(" != swap ")
		e.write(swapHex[:])
		return e
	}

	log.Debug().Msg("Swap validation success, bypassing review")
	return nil
}

// referenceAmount reads the low 8 bytes of the right-aligned amount. Significant
// bytes above them make the amount unrepresentable.
func referenceAmount(params *CreateTxParams) (uint64, bool) {
	if params.AmountLen < 0 || params.AmountLen > AmountBufSize {
		return 0, false
	}
	for _, b := range params.Amount[:AmountBufSize-amountWidth] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(params.Amount[AmountBufSize-amountWidth:]), true
}

func referenceDestination(params *CreateTxParams) (address.Address, error) {
	var dest address.Address

	if params.DestAddressLen < 0 || params.DestAddressLen > AddressBufSize {
		e := newError(ErrorWrongDestination, AppDestinationDecodeFail)
		e.writeString("Failed to read destination hex")
		return dest, e
	}

	raw := params.DestAddress[:params.DestAddressLen]
	if !utf8.Valid(raw) {
		e := newError(ErrorWrongDestination, AppDestinationDecodeFail)
		e.writeString("Failed to read destination hex")
		return dest, e
	}

	raw = bytes.TrimPrefix(raw, []byte("0x"))
	if len(raw) != 2*address.Length {
		return dest, destinationDecodeError(raw)
	}
	if _, err := hex.Decode(dest[:], raw); err != nil {
		return dest, destinationDecodeError(raw)
	}

	return dest, nil
}

func destinationDecodeError(raw []byte) Error {
	e := newError(ErrorWrongDestination, AppDestinationDecodeFail)
	e.writeString("Failed to decode destination hex: ")
	e.write(raw)
	return e
}

// CheckAddress reports whether the reference address is the one derived at the
// requested path. Scratch storage is fixed-size.
func CheckAddress(ctx context.Context, params *CheckAddressParams, engine signer.Engine) bool {
	log := util.LogFromContext(ctx)

	if params.DPathLen < 0 || params.DPathLen > address.MaxPathLen ||
		params.RefAddressLen < 0 || params.RefAddressLen > AddressBufSize {
		log.Warn().Int("path_len", params.DPathLen).Msg("Swap check address parameters out of range")
		return false
	}

	var components [address.MaxPathLen]uint32
	for i := range params.DPathLen {
		components[i] = binary.BigEndian.Uint32(params.DPath[4*i:])
	}

	path, err := address.NewDerivationPath(components[:params.DPathLen]...)
	if err != nil {
		return false
	}

	key, err := engine.Derive(path)
	if err != nil {
		log.Warn().Err(err).Msg("Swap check address key derivation failed")
		return false
	}
	defer key.Zero()

	pub, err := engine.PublicKey(key)
	if err != nil {
		log.Warn().Err(err).Msg("Swap check address public key failed")
		return false
	}

	derived, err := address.FromPublicKey(pub)
	if err != nil {
		return false
	}

	var derivedHex [2 * address.Length]byte
	hex.Encode(derivedHex[:], derived[:])

	if !bytes.Equal(derivedHex[:], params.RefAddress[:params.RefAddressLen]) {
		log.Warn().Bytes("derived", derivedHex[:]).
			Bytes("reference", params.RefAddress[:params.RefAddressLen]).
			Msg("Derived and received addresses do not match")
		return false
	}

	return true
}
