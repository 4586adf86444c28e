package signer

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

type service struct {
	engine Engine
}

// NewService creates a new signer Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(engine Engine) Service {
	return &service{
		engine: engine,
	}
}

// SignTransaction hashes, derives and signs in that order. The private key is wiped before returning.
func (s *service) SignTransaction(ctx context.Context, raw []byte, path address.DerivationPath) (*Signature, error) {
	log := util.LogFromContext(ctx)

	digest, err := s.engine.Hash(raw)
	if err != nil {
		return nil, errors.Wrap(ErrHash, err.Error())
	}

	key, err := s.engine.Derive(path)
	if err != nil {
		log.Error().Err(err).Str("path", path.String()).Msg("Failed to derive signing key")
		return nil, errors.Wrap(err, "failed to derive private key")
	}
	defer key.Zero()

	der, parity, err := s.engine.Sign(key, digest)
	if err != nil {
		log.Error().Err(err).Str("path", path.String()).Msg("Failed to sign digest")
		if errors.Is(err, ErrSign) {
			return nil, err
		}
		return nil, errors.Wrap(ErrSign, err.Error())
	}

	return &Signature{
		DER:    der,
		Parity: parity,
		Digest: digest,
	}, nil
}

func (s *service) PublicKey(_ context.Context, path address.DerivationPath) (*PublicKey, error) {
	key, err := s.engine.Derive(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer key.Zero()

	pub, err := s.engine.PublicKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute public key")
	}

	addr, err := address.FromPublicKey(pub)
	if err != nil {
		return nil, errors.Wrap(address.ErrDerive, err.Error())
	}

	chainCode := make([]byte, len(key.ChainCode))
	copy(chainCode, key.ChainCode)

	return &PublicKey{
		Key:       pub,
		ChainCode: chainCode,
		Address:   addr,
	}, nil
}
