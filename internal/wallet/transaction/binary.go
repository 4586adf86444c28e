package transaction

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util/bounded"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

// Compact-size markers of the memo length prefix.
const (
	varint16 = 0xfd
	varint32 = 0xfe
	varint64 = 0xff
)

// DecodeBinary parses the fixed layout:
//
//	nonce u64 BE | to [20] | value u64 BE | memo length (compact size) | memo
//
// The buffer must be consumed exactly.
func DecodeBinary(raw []byte) (*Transaction, error) {
	r := bounded.NewReader(raw)

	nonce, err := r.Uint64BE()
	if err != nil {
		return nil, parseErr(err, "nonce")
	}

	to, err := r.Next(address.Length)
	if err != nil {
		return nil, parseErr(err, "destination")
	}

	value, err := r.Uint64BE()
	if err != nil {
		return nil, parseErr(err, "value")
	}

	memoLen, err := readVarint(r)
	if err != nil {
		return nil, parseErr(err, "memo length")
	}
	if memoLen > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrParse, "memo length %d exceeds remaining %d bytes", memoLen, r.Remaining())
	}

	memo, err := r.Next(int(memoLen))
	if err != nil {
		return nil, parseErr(err, "memo")
	}
	if err := checkASCII(memo); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errors.Wrapf(ErrParse, "%d trailing bytes", r.Remaining())
	}

	tx := &Transaction{
		Format: FormatBinary,
		Nonce:  nonce,
		Value:  value,
		Memo:   string(memo),
	}
	copy(tx.To[:], to)

	return tx, nil
}

func readVarint(r *bounded.Reader) (uint64, error) {
	prefix, err := r.Byte()
	if err != nil {
		return 0, err
	}

	switch prefix {
	case varint16:
		v, err := r.Uint16LE()
		return uint64(v), err
	case varint32:
		v, err := r.Uint32LE()
		return uint64(v), err
	case varint64:
		return r.Uint64LE()
	default:
		return uint64(prefix), nil
	}
}

// EncodeBinary serializes tx in the fixed layout, using the shortest memo length prefix.
func EncodeBinary(tx *Transaction) ([]byte, error) {
	if err := checkASCII([]byte(tx.Memo)); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 8+address.Length+8+9+len(tx.Memo))
	out = binary.BigEndian.AppendUint64(out, tx.Nonce)
	out = append(out, tx.To[:]...)
	out = binary.BigEndian.AppendUint64(out, tx.Value)
	out = appendVarint(out, uint64(len(tx.Memo)))
	out = append(out, tx.Memo...)

	return out, nil
}

func appendVarint(out []byte, n uint64) []byte {
	switch {
	case n < varint16:
		return append(out, byte(n))
	case n <= 0xffff:
		return binary.LittleEndian.AppendUint16(append(out, varint16), uint16(n))
	case n <= 0xffffffff:
		return binary.LittleEndian.AppendUint32(append(out, varint32), uint32(n))
	default:
		return binary.LittleEndian.AppendUint64(append(out, varint64), n)
	}
}
