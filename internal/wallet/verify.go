package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-ledger-app/internal/wallet/address"
	"github/chapool/go-ledger-app/internal/wallet/seed"
)

// VerificationPath is the path whose address is stored next to the encrypted mnemonic.
var VerificationPath = address.MustParseBIP44Path("m/44'/60'/0'/0/0")

// VerificationAddress derives the address at VerificationPath.
func VerificationAddress(seedBytes []byte) (address.Address, error) {
	key, err := address.DeriveKey(seedBytes, VerificationPath)
	if err != nil {
		return address.Address{}, errors.Wrap(err, "failed to derive verification key")
	}
	defer key.Zero()

	addr, err := address.FromPrivateKey(key.PrivateKey)
	if err != nil {
		return address.Address{}, errors.Wrap(err, "failed to derive verification address")
	}
	return addr, nil
}

// VerifySeed compares the address derived from the unlocked seed with stored.
// Keystores without a stored address are accepted.
func VerifySeed(_ context.Context, seedManager seed.Manager, stored string) (bool, error) {
	log := log.With().Str("component", "seed_verification").Logger()

	s := seedManager.GetSeed()
	if s == nil {
		return false, errors.New("seed not initialized")
	}
	defer clear(s)

	if stored == "" {
		log.Info().Msg("No verification address stored, skipping check")
		return true, nil
	}

	derived, err := VerificationAddress(s)
	if err != nil {
		return false, err
	}

	if derived.Hex() != stored {
		log.Error().Str("derived", derived.Hex()).Str("stored", stored).Msg("Verification address mismatch")
		return false, nil
	}

	log.Debug().Msg("Seed verification successful")
	return true, nil
}
