package ui

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

// Field is one labelled line of a review screen.
type Field struct {
	Name  string
	Value string
}

// Reviewer renders data to the operator and returns their verdict.
// Review calls block until the operator decides.
type Reviewer interface {
	ReviewTransaction(ctx context.Context, fields []Field) (bool, error)
	ReviewAddress(ctx context.Context, addr string) (bool, error)
	ShowHome(ctx context.Context)
}

// FormatAmount renders a base-unit amount as "TICKER x.y" with decimals fractional digits,
// trailing zeros trimmed.
func FormatAmount(value uint64, decimals int32, ticker string) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(value), -decimals)
	if ticker == "" {
		return d.String()
	}
	return ticker + " " + d.String()
}

// Static answers every review with a fixed verdict.
type Static struct {
	Approve bool
}

func (s Static) ReviewTransaction(context.Context, []Field) (bool, error) {
	return s.Approve, nil
}

func (s Static) ReviewAddress(context.Context, string) (bool, error) {
	return s.Approve, nil
}

func (Static) ShowHome(context.Context) {}
