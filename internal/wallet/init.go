package wallet

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/wallet/keystore"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"golang.org/x/term"
)

const minPasswordLength = 8

var (
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWrongSeed        = errors.New("derived address does not match the keystore verification address")
)

// PasswordPrompt reads a secret from the operator.
type PasswordPrompt func(prompt string) (string, error)

// InitializeSeed unlocks the seed at server startup.
// A configured mnemonic is used as is. Otherwise the keystore is decrypted with the
// configured password, or one read from prompt, and the result is checked against
// the verification address stored alongside.
func InitializeSeed(ctx context.Context, cfg config.Wallet, seedManager seed.Manager, keystoreService keystore.Service, prompt PasswordPrompt) error {
	log := log.With().Str("component", "wallet_init").Logger()

	if cfg.Mnemonic != "" {
		log.Warn().Msg("Using mnemonic from configuration, keystore is ignored")
		if err := seedManager.Initialize(cfg.Mnemonic, cfg.Passphrase); err != nil {
			return errors.Wrap(err, "failed to initialize seed manager")
		}
		return nil
	}

	exists, err := keystoreService.Exists(cfg.KeystoreFile)
	if err != nil {
		return errors.Wrap(err, "failed to check keystore existence")
	}
	if !exists {
		return errors.Wrapf(ErrKeystoreNotFound, "%s, create one with the keystore command", cfg.KeystoreFile)
	}

	password := cfg.Password
	if password == "" {
		log.Info().Msg("Keystore found. Please enter password to unlock...")

		password, err = prompt("Enter keystore password: ")
		if err != nil {
			return errors.Wrap(err, "failed to read password")
		}
	}

	mnemonic, err := keystoreService.Load(ctx, cfg.KeystoreFile, password)
	if err != nil {
		return errors.Wrap(err, "failed to decrypt keystore (invalid password?)")
	}

	if err := seedManager.Initialize(mnemonic, cfg.Passphrase); err != nil {
		return errors.Wrap(err, "failed to initialize seed manager")
	}

	log.Info().Msg("Seed manager initialized successfully")

	stored, err := keystoreService.Address(cfg.KeystoreFile)
	if err != nil {
		return errors.Wrap(err, "failed to read verification address")
	}

	valid, err := VerifySeed(ctx, seedManager, stored)
	if err != nil {
		return errors.Wrap(err, "failed to verify seed")
	}
	if !valid {
		seedManager.Clear()
		return ErrWrongSeed
	}

	return nil
}

// CreateKeystore encrypts mnemonic into a new keystore at path, generating a fresh
// mnemonic when none is given. It returns the mnemonic and the verification address.
func CreateKeystore(ctx context.Context, keystoreService keystore.Service, path string, mnemonic string, password string, passphrase string) (string, string, error) {
	log := log.With().Str("component", "wallet_init").Logger()

	if len(password) < minPasswordLength {
		return "", "", ErrPasswordTooShort
	}

	if mnemonic == "" {
		log.Info().Msg("Generating new mnemonic...")

		var err error
		mnemonic, err = seed.NewMnemonic()
		if err != nil {
			return "", "", errors.Wrap(err, "failed to generate mnemonic")
		}
	}

	seedManager := seed.NewManager()
	if err := seedManager.Initialize(mnemonic, passphrase); err != nil {
		return "", "", errors.Wrap(err, "failed to initialize seed manager")
	}
	defer seedManager.Clear()

	s := seedManager.GetSeed()
	defer clear(s)

	addr, err := VerificationAddress(s)
	if err != nil {
		return "", "", err
	}

	if _, err := keystoreService.Create(ctx, path, mnemonic, password, addr.Hex()); err != nil {
		return "", "", errors.Wrap(err, "failed to create keystore")
	}

	log.Info().Str("path", path).Str("address", addr.Hex()).Msg("Keystore created successfully")
	return mnemonic, addr.Hex(), nil
}

// PromptNewPassword asks for a password twice.
func PromptNewPassword(prompt PasswordPrompt) (string, error) {
	password, err := prompt(fmt.Sprintf("Enter password for keystore (min %d characters): ", minPasswordLength))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}

	passwordConfirm, err := prompt("Confirm password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password confirmation")
	}

	if password != passwordConfirm {
		return "", ErrPasswordMismatch
	}

	return password, nil
}

// TerminalPrompt prompts for password input on the terminal (hides input)
//
//nolint:forbidigo // Password input requires direct terminal I/O
func TerminalPrompt(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read password from terminal (hides input)
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr) // New line after password input

	return string(passwordBytes), nil
}
