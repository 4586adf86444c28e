package keystore

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util"
)

// Service provides keystore encryption and decryption functionality
type Service interface {
	// Create encrypts a mnemonic and writes the keystore to path. verificationAddress
	// is stored in clear and may be empty.
	Create(ctx context.Context, path string, mnemonic string, password string, verificationAddress string) (*KeystoreJSON, error)

	// Load reads the keystore at path and decrypts its mnemonic
	Load(ctx context.Context, path string, password string) (string, error)

	// Address returns the verification address stored at path, empty if there is none
	Address(path string) (string, error)

	// Exists checks if a keystore file exists at path
	Exists(path string) (bool, error)
}

type service struct {
	params ScryptParams
}

// NewService creates a new keystore Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(params ScryptParams) Service {
	return &service{
		params: params,
	}
}

func (s *service) Create(ctx context.Context, path string, mnemonic string, password string, verificationAddress string) (*KeystoreJSON, error) {
	log := util.LogFromContext(ctx)

	exists, err := s.Exists(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check keystore existence")
	}
	if exists {
		return nil, errors.Errorf("keystore already exists at %s", path)
	}

	keystoreJSON, err := encryptMnemonic(mnemonic, password, s.params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encrypt mnemonic")
		return nil, errors.Wrap(err, "failed to encrypt mnemonic")
	}
	keystoreJSON.Address = verificationAddress

	data, err := json.MarshalIndent(keystoreJSON, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal keystore JSON")
	}

	//nolint:mnd // owner read/write only
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write keystore")
		return nil, errors.Wrap(err, "failed to write keystore")
	}

	log.Info().Str("path", path).Str("id", keystoreJSON.ID).Msg("Created keystore")
	return keystoreJSON, nil
}

func (s *service) Load(ctx context.Context, path string, password string) (string, error) {
	log := util.LogFromContext(ctx)

	keystoreJSON, err := read(path)
	if err != nil {
		return "", err
	}

	mnemonic, err := decryptMnemonic(keystoreJSON, password)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to decrypt mnemonic")
		return "", errors.Wrap(err, "failed to decrypt mnemonic")
	}

	return mnemonic, nil
}

func (s *service) Address(path string) (string, error) {
	keystoreJSON, err := read(path)
	if err != nil {
		return "", err
	}
	return keystoreJSON.Address, nil
}

func read(path string) (*KeystoreJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore")
	}

	var keystoreJSON KeystoreJSON
	if err := json.Unmarshal(data, &keystoreJSON); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}
	return &keystoreJSON, nil
}

func (s *service) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrap(err, "failed to stat keystore")
}
