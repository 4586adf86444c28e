package swap

import (
	"github/chapool/go-ledger-app/internal/wallet/address"
)

// Buffer sizes of the parameter blocks handed over by the exchange process.
const (
	AmountBufSize  = 16
	AddressBufSize = 64
	MaxMessageLen  = 128
	PrintableLen   = 40
)

// CommonCode is the coarse half of a swap error, shared by every coin application.
type CommonCode byte

const (
	ErrorInternal         CommonCode = 0x00
	ErrorWrongAmount      CommonCode = 0x01
	ErrorWrongDestination CommonCode = 0x02
	ErrorWrongFees        CommonCode = 0x03
	ErrorWrongMethod      CommonCode = 0x04
	ErrorGeneric          CommonCode = 0xff
)

func (c CommonCode) String() string {
	switch c {
	case ErrorInternal:
		return "internal"
	case ErrorWrongAmount:
		return "wrong_amount"
	case ErrorWrongDestination:
		return "wrong_destination"
	case ErrorWrongFees:
		return "wrong_fees"
	case ErrorWrongMethod:
		return "wrong_method"
	default:
		return "generic"
	}
}

// AppCode refines a CommonCode.
type AppCode byte

const (
	AppDefault               AppCode = 0x00
	AppAmountCastFail        AppCode = 0x01
	AppDestinationDecodeFail AppCode = 0x02
)

// CreateTxParams is the reference transaction of a swap. Amount is big-endian and
// right-aligned with AmountLen significant bytes; DestAddress holds DestAddressLen
// bytes of hex text, optionally 0x-prefixed.
type CreateTxParams struct {
	Amount         [AmountBufSize]byte
	AmountLen      int
	DestAddress    [AddressBufSize]byte
	DestAddressLen int
}

// CheckAddressParams asks whether RefAddress (lowercase hex, no prefix) belongs to
// the key at DPath. DPathLen counts path components, not bytes.
type CheckAddressParams struct {
	DPath         [address.MaxPathLen * 4]byte
	DPathLen      int
	RefAddress    [AddressBufSize]byte
	RefAddressLen int
}

// PrintableAmountParams carries a big-endian, right-aligned amount to render.
type PrintableAmountParams struct {
	Amount    [AmountBufSize]byte
	AmountLen int
	IsFee     bool
}
