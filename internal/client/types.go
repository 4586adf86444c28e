package client

import (
	"context"
	"fmt"

	"github/chapool/go-ledger-app/internal/apdu"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

// Exchanger sends one request frame and returns the raw reply, status word included.
type Exchanger interface {
	Exchange(ctx context.Context, frame []byte) ([]byte, error)
}

// StatusError is a reply that did not end in StatusOk. It unwraps to the status
// word so errors.Is(err, apdu.StatusDeny) holds for a rejected request.
type StatusError struct {
	Status apdu.StatusWord

	// Data is the reply payload, for swap failures [common code, app code, message]
	Data []byte
}

func (e *StatusError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("device replied %s with %d bytes", e.Status, len(e.Data))
	}
	return fmt.Sprintf("device replied %s", e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Status
}

// Version of the application.
type Version struct {
	Major, Minor, Patch byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// PublicKey as returned by the device, the address is computed host side.
type PublicKey struct {
	Key       []byte
	ChainCode []byte
	Address   address.Address
}

// Signature over the digest of a transaction.
type Signature struct {
	DER    []byte
	Parity byte
}
