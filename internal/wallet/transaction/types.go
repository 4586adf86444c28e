package transaction

import (
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

// MaxLen is the capacity of the accumulation buffer a transaction is decoded from.
const MaxLen = 510

var (
	// ErrParse is wrapped by every decoding failure.
	ErrParse = errors.New("transaction parsing failed")

	ErrNonASCIIMemo = errors.Wrap(ErrParse, "memo contains non-ASCII byte")
)

// Format selects the wire layout of a raw transaction
type Format string

const (
	FormatBinary Format = "binary"
	FormatJSON   Format = "json"
	FormatRLP    Format = "rlp"
)

// ParseFormat resolves a configured format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatBinary, FormatJSON, FormatRLP:
		return f, nil
	default:
		return "", errors.Errorf("unknown transaction format %q", s)
	}
}

// RLP transaction types
const (
	TypeLegacy  uint8 = 0
	TypeAccess  uint8 = 1
	TypeDynamic uint8 = 2
)

// Transaction is the decoded business object of a signing request.
// Fields after Memo are only populated by the RLP layout.
type Transaction struct {
	Format Format

	Nonce uint64
	Coin  string
	To    address.Address
	Value uint64
	Memo  string

	Type           uint8
	GasPrice       *uint256.Int
	MaxPriorityFee *uint256.Int
	MaxFee         *uint256.Int
	Gas            uint64
	StorageLimit   uint64
	EpochHeight    uint64
	ChainID        uint64
	Data           []byte
	AccessList     types.AccessList
}

// Decode parses raw with the layout named by format.
func Decode(format Format, raw []byte) (*Transaction, error) {
	switch format {
	case FormatBinary:
		return DecodeBinary(raw)
	case FormatJSON:
		return DecodeJSON(raw)
	case FormatRLP:
		return DecodeRLP(raw)
	default:
		return nil, errors.Wrapf(ErrParse, "unknown format %q", format)
	}
}

func checkASCII(memo []byte) error {
	for i, b := range memo {
		if b > 0x7f {
			return errors.Wrapf(ErrNonASCIIMemo, "byte 0x%02x at offset %d", b, i)
		}
	}
	return nil
}

func parseErr(err error, msg string) error {
	return errors.Wrapf(ErrParse, "%s: %v", msg, err)
}
