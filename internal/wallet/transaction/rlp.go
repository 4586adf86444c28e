package transaction

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

var (
	prefixAccess  = []byte{'c', 'f', 'x', 0x01}
	prefixDynamic = []byte{'c', 'f', 'x', 0x02}
)

const rlpListMarker = 0xc0

// legacyTx is the bare 9-item list.
type legacyTx struct {
	Nonce        uint64
	GasPrice     *uint256.Int
	Gas          uint64
	To           common.Address
	Value        *uint256.Int
	StorageLimit uint64
	EpochHeight  uint64
	ChainID      uint64
	Data         []byte
}

// accessTx follows the "cfx\x01" prefix.
type accessTx struct {
	Nonce        uint64
	GasPrice     *uint256.Int
	Gas          uint64
	To           common.Address
	Value        *uint256.Int
	StorageLimit uint64
	EpochHeight  uint64
	ChainID      uint64
	Data         []byte
	AccessList   types.AccessList
}

// dynamicTx follows the "cfx\x02" prefix.
type dynamicTx struct {
	Nonce          uint64
	MaxPriorityFee *uint256.Int
	MaxFee         *uint256.Int
	Gas            uint64
	To             common.Address
	Value          *uint256.Int
	StorageLimit   uint64
	EpochHeight    uint64
	ChainID        uint64
	Data           []byte
	AccessList     types.AccessList
}

// DecodeRLP parses an RLP transaction: a bare legacy list, or a list prefixed
// by "cfx\x01" (gas price plus access list) or "cfx\x02" (dynamic fee).
// Values that do not fit 64 bits are rejected.
func DecodeRLP(raw []byte) (*Transaction, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrParse, "empty rlp input")
	}

	var tx *Transaction
	switch {
	case raw[0] >= rlpListMarker:
		var in legacyTx
		if err := rlp.DecodeBytes(raw, &in); err != nil {
			return nil, parseErr(err, "legacy rlp")
		}
		tx = &Transaction{
			Type:         TypeLegacy,
			Nonce:        in.Nonce,
			GasPrice:     in.GasPrice,
			Gas:          in.Gas,
			To:           address.Address(in.To),
			StorageLimit: in.StorageLimit,
			EpochHeight:  in.EpochHeight,
			ChainID:      in.ChainID,
			Data:         in.Data,
		}
		if err := setValue(tx, in.Value); err != nil {
			return nil, err
		}

	case bytes.HasPrefix(raw, prefixAccess):
		var in accessTx
		if err := rlp.DecodeBytes(raw[len(prefixAccess):], &in); err != nil {
			return nil, parseErr(err, "access list rlp")
		}
		tx = &Transaction{
			Type:         TypeAccess,
			Nonce:        in.Nonce,
			GasPrice:     in.GasPrice,
			Gas:          in.Gas,
			To:           address.Address(in.To),
			StorageLimit: in.StorageLimit,
			EpochHeight:  in.EpochHeight,
			ChainID:      in.ChainID,
			Data:         in.Data,
			AccessList:   in.AccessList,
		}
		if err := setValue(tx, in.Value); err != nil {
			return nil, err
		}

	case bytes.HasPrefix(raw, prefixDynamic):
		var in dynamicTx
		if err := rlp.DecodeBytes(raw[len(prefixDynamic):], &in); err != nil {
			return nil, parseErr(err, "dynamic fee rlp")
		}
		tx = &Transaction{
			Type:           TypeDynamic,
			Nonce:          in.Nonce,
			MaxPriorityFee: in.MaxPriorityFee,
			MaxFee:         in.MaxFee,
			Gas:            in.Gas,
			To:             address.Address(in.To),
			StorageLimit:   in.StorageLimit,
			EpochHeight:    in.EpochHeight,
			ChainID:        in.ChainID,
			Data:           in.Data,
			AccessList:     in.AccessList,
		}
		if err := setValue(tx, in.Value); err != nil {
			return nil, err
		}

	default:
		return nil, errors.Wrap(ErrParse, "invalid raw transaction prefix")
	}

	tx.Format = FormatRLP
	return tx, nil
}

func setValue(tx *Transaction, value *uint256.Int) error {
	if value == nil {
		return nil
	}
	if !value.IsUint64() {
		return errors.Wrapf(ErrParse, "value %s overflows 64 bits", value.Dec())
	}
	tx.Value = value.Uint64()
	return nil
}

// EncodeRLP serializes tx according to tx.Type.
func EncodeRLP(tx *Transaction) ([]byte, error) {
	value := uint256.NewInt(tx.Value)

	switch tx.Type {
	case TypeLegacy:
		return encodeRLP(nil, &legacyTx{
			Nonce:        tx.Nonce,
			GasPrice:     orZero(tx.GasPrice),
			Gas:          tx.Gas,
			To:           common.Address(tx.To),
			Value:        value,
			StorageLimit: tx.StorageLimit,
			EpochHeight:  tx.EpochHeight,
			ChainID:      tx.ChainID,
			Data:         tx.Data,
		})
	case TypeAccess:
		return encodeRLP(prefixAccess, &accessTx{
			Nonce:        tx.Nonce,
			GasPrice:     orZero(tx.GasPrice),
			Gas:          tx.Gas,
			To:           common.Address(tx.To),
			Value:        value,
			StorageLimit: tx.StorageLimit,
			EpochHeight:  tx.EpochHeight,
			ChainID:      tx.ChainID,
			Data:         tx.Data,
			AccessList:   orEmpty(tx.AccessList),
		})
	case TypeDynamic:
		return encodeRLP(prefixDynamic, &dynamicTx{
			Nonce:          tx.Nonce,
			MaxPriorityFee: orZero(tx.MaxPriorityFee),
			MaxFee:         orZero(tx.MaxFee),
			Gas:            tx.Gas,
			To:             common.Address(tx.To),
			Value:          value,
			StorageLimit:   tx.StorageLimit,
			EpochHeight:    tx.EpochHeight,
			ChainID:        tx.ChainID,
			Data:           tx.Data,
			AccessList:     orEmpty(tx.AccessList),
		})
	default:
		return nil, errors.Errorf("unknown rlp transaction type %d", tx.Type)
	}
}

func encodeRLP(prefix []byte, v any) ([]byte, error) {
	body, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode rlp")
	}
	return append(append([]byte{}, prefix...), body...), nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

func orEmpty(l types.AccessList) types.AccessList {
	if l == nil {
		return types.AccessList{}
	}
	return l
}
