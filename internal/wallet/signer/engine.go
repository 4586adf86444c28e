package signer

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/seed"
)

const (
	digestLen        = 32
	compactHeaderMin = 27
)

// secp256k1Engine derives keys from the unlocked seed, hashes with Keccak-256
// and signs with RFC6979 deterministic ECDSA.
type secp256k1Engine struct {
	seedManager seed.Manager
}

// NewEngine creates the secp256k1 Engine over an unlocked seed
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewEngine(seedManager seed.Manager) Engine {
	return &secp256k1Engine{
		seedManager: seedManager,
	}
}

func (e *secp256k1Engine) Derive(path address.DerivationPath) (*address.ExtendedKey, error) {
	s := e.seedManager.GetSeed()
	if s == nil {
		return nil, errors.Wrap(address.ErrDerive, ErrSeedNotInitialized.Error())
	}
	defer clear(s)

	return address.DeriveKey(s, path)
}

func (e *secp256k1Engine) PublicKey(key *address.ExtendedKey) ([]byte, error) {
	if len(key.PrivateKey) != secp256k1.PrivKeyBytesLen {
		return nil, errors.Wrapf(address.ErrDerive, "private key has %d bytes", len(key.PrivateKey))
	}

	priv := secp256k1.PrivKeyFromBytes(key.PrivateKey)
	defer priv.Zero()

	return priv.PubKey().SerializeUncompressed(), nil
}

func (e *secp256k1Engine) Hash(data []byte) ([]byte, error) {
	return crypto.Keccak256(data), nil
}

func (e *secp256k1Engine) Sign(key *address.ExtendedKey, digest []byte) ([]byte, byte, error) {
	if len(digest) != digestLen {
		return nil, 0, errors.Wrapf(ErrSign, "digest has %d bytes", len(digest))
	}
	if len(key.PrivateKey) != secp256k1.PrivKeyBytesLen {
		return nil, 0, errors.Wrapf(ErrSign, "private key has %d bytes", len(key.PrivateKey))
	}

	priv := secp256k1.PrivKeyFromBytes(key.PrivateKey)
	defer priv.Zero()

	der := ecdsa.Sign(priv, digest).Serialize()

	// same RFC6979 nonce, so the recovery id matches the DER signature
	compact := ecdsa.SignCompact(priv, digest, false)
	parity := (compact[0] - compactHeaderMin) & 1

	return der, parity, nil
}
