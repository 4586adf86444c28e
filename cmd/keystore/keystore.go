package keystore

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/util/command"
	"github/chapool/go-ledger-app/internal/wallet"
)

const (
	showMnemonicFlag = "show-mnemonic"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("keystore",
		newCreate(),
		newAddress(),
	)
}

func newCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates the keystore",
		Long: `Encrypts a mnemonic into WALLET_KEYSTORE_FILE.

WALLET_MNEMONIC is used if set, otherwise a new 24 word mnemonic is generated.
The password is read from WALLET_PASSWORD or prompted for twice.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.SetupLogger(cfg.Logger)

			showMnemonic, err := cmd.Flags().GetBool(showMnemonicFlag)
			if err != nil {
				return errors.Wrapf(err, "failed to get %s flag", showMnemonicFlag)
			}

			password := cfg.Wallet.Password
			if password == "" {
				password, err = wallet.PromptNewPassword(wallet.TerminalPrompt)
				if err != nil {
					return err
				}
			}

			mnemonic, addr, err := wallet.CreateKeystore(cmd.Context(), api.NewKeystore(cfg.Wallet),
				cfg.Wallet.KeystoreFile, cfg.Wallet.Mnemonic, password, cfg.Wallet.Passphrase)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "keystore: %s\naddress:  0x%s\n", cfg.Wallet.KeystoreFile, addr)
			if showMnemonic && cfg.Wallet.Mnemonic == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "mnemonic: %s\n", mnemonic)
			}

			return nil
		},
	}
	cmd.Flags().Bool(showMnemonicFlag, false, "Print a generated mnemonic. Write it down and clear your terminal.")

	return cmd
}

func newAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the verification address of the keystore",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			addr, err := api.NewKeystore(cfg.Wallet).Address(cfg.Wallet.KeystoreFile)
			if err != nil {
				return err
			}
			if addr == "" {
				return errors.Errorf("keystore %s carries no verification address", cfg.Wallet.KeystoreFile)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", addr)
			return nil
		},
	}
}
