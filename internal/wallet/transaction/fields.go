package transaction

import (
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/ui"
)

var ErrCoinMismatch = errors.Wrap(ErrParse, "coin does not match the application ticker")

// Display controls how a transaction is rendered for review.
type Display struct {
	Ticker   string
	Decimals int32
	ShowMemo bool
}

// CheckCoin fails when tx names a coin other than ticker. An empty coin is accepted.
func CheckCoin(tx *Transaction, ticker string) error {
	if tx.Coin != "" && tx.Coin != ticker {
		return errors.Wrapf(ErrCoinMismatch, "got %q, want %q", tx.Coin, ticker)
	}
	return nil
}

// Fields lists the review lines of tx. The amount is always rendered with the
// configured ticker.
func Fields(tx *Transaction, d Display) []ui.Field {
	fields := []ui.Field{
		{Name: "Amount", Value: ui.FormatAmount(tx.Value, d.Decimals, d.Ticker)},
		{Name: "Destination", Value: "0x" + tx.To.Hex()},
	}

	if d.ShowMemo && tx.Format != FormatRLP {
		fields = append(fields, ui.Field{Name: "Memo", Value: tx.Memo})
	}

	if tx.Format == FormatRLP {
		fields = append(fields,
			ui.Field{Name: "Nonce", Value: strconv.FormatUint(tx.Nonce, 10)},
			ui.Field{Name: "Gas", Value: strconv.FormatUint(tx.Gas, 10)},
			ui.Field{Name: "Chain ID", Value: strconv.FormatUint(tx.ChainID, 10)},
		)
		if len(tx.Data) > 0 {
			fields = append(fields, ui.Field{Name: "Data", Value: "0x" + hex.EncodeToString(tx.Data)})
		}
	}

	return fields
}
