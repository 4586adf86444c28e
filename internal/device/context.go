package device

import (
	"github/chapool/go-ledger-app/internal/util/bounded"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/swap"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

// TxContext accumulates one signing sequence across SignTx exchanges.
// It must not be copied after newTxContext.
type TxContext struct {
	storage [transaction.MaxLen]byte
	raw     bounded.Buffer
	path    address.DerivationPath

	// active is set by chunk 0 and cleared once the last chunk was consumed or the sequence aborted
	active         bool
	// nextChunk is the only P1 accepted by the next data chunk
	nextChunk      byte
	reviewFinished bool

	// swap is borrowed from the exchange session, nil in interactive mode
	swap *swap.CreateTxParams
	// signed records whether a signature was released during the swap session
	signed bool
}

func newTxContext() *TxContext {
	c := &TxContext{}
	c.raw = bounded.Wrap(c.storage[:])
	return c
}

// Reset clears the buffer, the path and the review flag. Swap parameters are kept.
func (c *TxContext) Reset() {
	c.raw.Reset()
	c.path = address.DerivationPath{}
	c.active = false
	c.nextChunk = 0
	c.reviewFinished = false
}

// abort drops the in-flight sequence, keeping the review flag.
func (c *TxContext) abort() {
	c.raw.Reset()
	c.path = address.DerivationPath{}
	c.active = false
	c.nextChunk = 0
}

func (c *TxContext) ReviewFinished() bool {
	return c.reviewFinished
}

func (c *TxContext) Len() int {
	return c.raw.Len()
}
