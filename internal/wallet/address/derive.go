package address

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

const (
	// Length is the byte width of an account address.
	Length = 20

	ChainCodeLength = 32
)

var ErrDerive = errors.New("key derivation failed")

// Address is the last 20 bytes of the Keccak-256 hash of an uncompressed public key.
type Address [Length]byte

// Hex returns the lowercase hex form without prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// ExtendedKey is a derived private key with its chain code.
// WARNING: Caller must call Zero after use
type ExtendedKey struct {
	PrivateKey []byte
	ChainCode  []byte
}

// Zero wipes the key material.
func (k *ExtendedKey) Zero() {
	clear(k.PrivateKey)
	clear(k.ChainCode)
}

// DeriveKey derives the extended private key for path from a BIP39 seed.
func DeriveKey(seed []byte, path DerivationPath) (*ExtendedKey, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(ErrDerive, err.Error())
	}

	key := masterKey
	for _, index := range path.Components() {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(ErrDerive, "child key at index %d: %v", index, err)
		}
	}

	return &ExtendedKey{
		PrivateKey: key.Key,
		ChainCode:  key.ChainCode,
	}, nil
}

// FromPublicKey computes the address of a 65-byte uncompressed public key.
func FromPublicKey(pubkey []byte) (Address, error) {
	var addr Address
	if len(pubkey) != 65 || pubkey[0] != 0x04 {
		return addr, errors.New("expected 65-byte uncompressed public key")
	}

	hash := crypto.Keccak256(pubkey[1:])
	copy(addr[:], hash[len(hash)-Length:])
	return addr, nil
}

// FromPrivateKey derives the address of a raw secp256k1 private key.
func FromPrivateKey(privateKey []byte) (Address, error) {
	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return Address{}, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	publicKeyECDSA, ok := ecdsaPrivateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return Address{}, errors.New("failed to cast public key to ECDSA")
	}

	return Address(crypto.PubkeyToAddress(*publicKeyECDSA)), nil
}
