package signer

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

var (
	ErrSeedNotInitialized = errors.New("seed not initialized")
	ErrHash               = errors.New("failed to hash transaction")
	ErrSign               = errors.New("failed to sign transaction")
)

// Service runs the signing pipeline over raw transaction bytes
type Service interface {
	// SignTransaction hashes raw and signs the digest with the key at path
	SignTransaction(ctx context.Context, raw []byte, path address.DerivationPath) (*Signature, error)

	// PublicKey derives the uncompressed public key and chain code at path
	PublicKey(ctx context.Context, path address.DerivationPath) (*PublicKey, error)
}

// Engine is the key and signature capability the pipeline is built on.
type Engine interface {
	Derive(path address.DerivationPath) (*address.ExtendedKey, error)
	PublicKey(key *address.ExtendedKey) ([]byte, error)
	Hash(data []byte) ([]byte, error)
	Sign(key *address.ExtendedKey, digest []byte) (der []byte, parity byte, err error)
}

// Signature is a DER-encoded ECDSA signature with its recovery parity
type Signature struct {
	DER    []byte
	Parity byte
	Digest []byte
}

// PublicKey holds a 65-byte uncompressed key, its chain code and address
type PublicKey struct {
	Key       []byte
	ChainCode []byte
	Address   address.Address
}
