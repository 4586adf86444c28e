package swap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

var ErrAddressLength = errors.New("address length out of range")

// NewCreateTxParams right-aligns amount and copies the destination text.
func NewCreateTxParams(amount []byte, destination string) (*CreateTxParams, error) {
	var p CreateTxParams

	if len(amount) > AmountBufSize {
		return nil, errors.Wrapf(ErrAmountLength, "%d bytes", len(amount))
	}
	if len(destination) > AddressBufSize {
		return nil, errors.Wrapf(ErrAddressLength, "%d bytes", len(destination))
	}

	p.AmountLen = copy(p.Amount[AmountBufSize-len(amount):], amount)
	p.DestAddressLen = copy(p.DestAddress[:], destination)
	return &p, nil
}

// NewCheckAddressParams encodes path components big-endian and copies the reference address.
func NewCheckAddressParams(path address.DerivationPath, reference string) (*CheckAddressParams, error) {
	var p CheckAddressParams

	if len(reference) > AddressBufSize {
		return nil, errors.Wrapf(ErrAddressLength, "%d bytes", len(reference))
	}

	for i, c := range path.Components() {
		binary.BigEndian.PutUint32(p.DPath[4*i:], c)
	}
	p.DPathLen = path.Len()
	p.RefAddressLen = copy(p.RefAddress[:], reference)
	return &p, nil
}

func NewPrintableAmountParams(amount []byte, isFee bool) (*PrintableAmountParams, error) {
	var p PrintableAmountParams

	if len(amount) > AmountBufSize {
		return nil, errors.Wrapf(ErrAmountLength, "%d bytes", len(amount))
	}

	p.AmountLen = copy(p.Amount[AmountBufSize-len(amount):], amount)
	p.IsFee = isFee
	return &p, nil
}
