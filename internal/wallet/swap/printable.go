package swap

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util"
)

var (
	ErrAmountLength    = errors.New("amount length out of range")
	ErrPrintableLength = errors.New("printable amount exceeds buffer")
)

// Printable is a rendered amount held in a fixed buffer.
type Printable struct {
	buf [PrintableLen]byte
	n   int
}

func (p *Printable) Bytes() []byte {
	return p.buf[:p.n]
}

func (p *Printable) String() string {
	return string(p.buf[:p.n])
}

func (p *Printable) write(s []byte) bool {
	if p.n+len(s) > len(p.buf) {
		return false
	}
	p.n += copy(p.buf[p.n:], s)
	return true
}

// PrintableAmount renders the amount as "TICKER int.frac" with decimals fractional
// digits, trailing zeros trimmed. All scratch storage is on the stack.
func PrintableAmount(ctx context.Context, params *PrintableAmountParams, ticker string, decimals int) (Printable, error) {
	var out Printable

	if params.AmountLen < 0 || params.AmountLen > AmountBufSize {
		return out, ErrAmountLength
	}

	var value uint256.Int
	value.SetBytes(params.Amount[AmountBufSize-params.AmountLen:])

	// 16 bytes never exceed 39 decimal digits
	var digits [40]byte
	n := formatDecimal(&value, digits[:])
	rendered := digits[len(digits)-n:]

	if len(ticker) >= PrintableLen {
		return out, ErrPrintableLength
	}

	var tmp [3 * PrintableLen]byte
	t := 0
	if ticker != "" {
		t += copy(tmp[t:], ticker)
		tmp[t] = ' '
		t++
	}

	switch {
	case decimals <= 0:
		t += copy(tmp[t:], rendered)
	case n > decimals:
		t += copy(tmp[t:], rendered[:n-decimals])
		t += appendFraction(tmp[t:], rendered[n-decimals:])
	default:
		tmp[t] = '0'
		t++
		var frac [40]byte
		pad := decimals - n
		if pad+n > len(frac) {
			return out, ErrPrintableLength
		}
		for i := range pad {
			frac[i] = '0'
		}
		copy(frac[pad:], rendered)
		t += appendFraction(tmp[t:], frac[:pad+n])
	}

	if !out.write(tmp[:t]) {
		return out, ErrPrintableLength
	}

	util.LogFromContext(ctx).Debug().Bool("is_fee", params.IsFee).Bytes("amount", out.Bytes()).Msg("Formatted swap amount")
	return out, nil
}

// formatDecimal writes v right-aligned into dst and returns the digit count.
func formatDecimal(v *uint256.Int, dst []byte) int {
	if v.IsZero() {
		dst[len(dst)-1] = '0'
		return 1
	}

	var rest, quot, ten, digit uint256.Int
	rest.Set(v)
	ten.SetUint64(10)

	i := len(dst)
	for !rest.IsZero() && i > 0 {
		quot.DivMod(&rest, &ten, &digit)
		rest.Set(&quot)
		i--
		dst[i] = byte('0' + digit.Uint64())
	}
	return len(dst) - i
}

// appendFraction writes "." and frac without trailing zeros, nothing when frac is all zeros.
func appendFraction(dst []byte, frac []byte) int {
	end := len(frac)
	for end > 0 && frac[end-1] == '0' {
		end--
	}
	if end == 0 {
		return 0
	}
	dst[0] = '.'
	return 1 + copy(dst[1:], frac[:end])
}
